package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCount parses a user-entered count, tolerating surrounding
// whitespace and thousands separators ("1,200" or "1 200"). This is the
// optional sanitise pre-step: it cleans text representations only and is
// kept apart from Experiment, which never alters values.
func ParseCount(s string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return n, nil
}
