package throttle

import "strconv"

// formatação de valores numéricos em headers, sem passar por fmt

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
