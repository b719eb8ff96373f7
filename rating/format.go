package rating

import "strconv"

// Format renders a rating for display with exactly one decimal digit ("4.0",
// not "4"). Zero or negative input means "no rating yet" and formats as the
// default.
func Format(r float64) string {
	if r <= 0 {
		r = DefaultRating
	}
	return strconv.FormatFloat(round1(r), 'f', 1, 64)
}
