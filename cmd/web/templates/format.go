package templates

import "strconv"

func percent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 0, 64)
}
