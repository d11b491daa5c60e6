package internal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// truthy is false only for nil and false
func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if valueBool, isBool := value.(bool); isBool {
		return valueBool
	}
	return true
}

// isEqual compares primitives by value and objects by reference
func isEqual(a, b interface{}) bool {
	return a == b
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return formatNumber(v)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}

// formatNumber renders the shortest decimal that reads back as v, switching
// to exponent form for very large and very small magnitudes
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		// Also covers negative zero
		return "0"
	}

	if abs := math.Abs(v); abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// Go pads the exponent to two digits, 1e+05
	s := strconv.FormatFloat(v, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	mantissa, sign, exp := s[:i], s[i+1], strings.TrimLeft(s[i+2:], "0")
	return mantissa + "e" + string(sign) + exp
}
