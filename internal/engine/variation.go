package engine

// Variation is a single experiment arm: a named group with raw counts.
type Variation struct {
	Name        string `json:"name"`
	Visitors    int    `json:"visitors"`
	Conversions int    `json:"conversions"`
}

// ConversionRate returns conversions/visitors. A variation with zero
// visitors has a rate of zero; validated input always has visitors >= 1.
func (v Variation) ConversionRate() float64 {
	if v.Visitors == 0 {
		return 0
	}
	return float64(v.Conversions) / float64(v.Visitors)
}
