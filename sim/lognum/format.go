package lognum

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads a decimal ("1500", "-0.25") or an exponent form "<mantissa>e<exponent>"
// ("1.5e300", "-2e-7"). The mantissa may be omitted: "e400" is exactly 10^400.
// A leading "-" negates the whole value. The exponent may be fractional and
// signed. Decimals beyond float64 range keep their magnitude ("1" followed by
// 400 zeros is 1e400). "inf" and "NaN" parse back from Format. Any other form,
// including hex floats and repeated exponent markers, is a *ParseError.
func Parse(s string) (LogNum, error) {
	body := strings.TrimSpace(s)
	neg := strings.HasPrefix(body, "-")
	if neg {
		body = body[1:]
	}
	if body == "" || strings.HasPrefix(body, "-") {
		return NaN(), &ParseError{Input: s}
	}

	var n LogNum
	switch idx := strings.IndexAny(body, "eE"); {
	case strings.EqualFold(body, "inf"):
		n = Inf(1)
	case strings.EqualFold(body, "nan"):
		return NaN(), nil
	case idx < 0:
		if !decimalPattern.MatchString(body) {
			return NaN(), &ParseError{Input: s}
		}
		n = parseDecimal(body)
	default:
		mantissa, exponent := body[:idx], body[idx+1:]
		if !exponentPattern.MatchString(exponent) || (mantissa != "" && !decimalPattern.MatchString(mantissa)) {
			return NaN(), &ParseError{Input: s}
		}
		exp, err := strconv.ParseFloat(exponent, 64)
		if err != nil {
			return NaN(), &ParseError{Input: s, Err: err}
		}
		n = FromLog(exp)
		if mantissa != "" {
			n = n.Mul(parseDecimal(mantissa))
		}
	}
	if neg {
		n = n.Neg()
	}
	return n, nil
}

var (
	decimalPattern  = regexp.MustCompile(`^([0-9]+\.?[0-9]*|\.[0-9]+)$`)
	exponentPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)$`)
)

// maxSignificantDigits is the number of leading digits parseDecimal keeps
// when the decimal overflows float64.
const maxSignificantDigits = 17

// parseDecimal converts an unsigned decimal matching decimalPattern. Values
// that overflow or underflow float64 take their log from the digit count.
func parseDecimal(d string) LogNum {
	if x, err := strconv.ParseFloat(d, 64); err == nil && x != 0 && !math.IsInf(x, 0) {
		return FromFloat(x)
	}
	intPart, fracPart, _ := strings.Cut(d, ".")
	digits := strings.TrimLeft(intPart+fracPart, "0")
	if digits == "" {
		return Zero()
	}
	// position of the first significant digit relative to the decimal point
	shift := len(intPart) - (len(intPart) + len(fracPart) - len(digits))
	if len(digits) > maxSignificantDigits {
		digits = digits[:maxSignificantDigits]
	}
	frac, _ := strconv.ParseFloat("0."+digits, 64)
	return FromLog(math.Log10(frac) + float64(shift))
}

// MustParse is Parse for literals known to be valid. It panics on error.
func MustParse(s string) LogNum {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String renders a with two mantissa decimals, e.g. "1.01e22".
func (a LogNum) String() string { return a.Format(2) }

// Format renders a as "M.MMeE" with E = floor(log) and prec mantissa decimals.
// A negative prec prints the shortest mantissa that round-trips.
// Zero, infinities and NaN render as "0", "inf", "-inf" and "NaN".
func (a LogNum) Format(prec int) string {
	switch {
	case a.IsNaN():
		return "NaN"
	case a.IsZero():
		return "0"
	case a.IsInf():
		if a.neg {
			return "-inf"
		}
		return "inf"
	}
	exp := math.Floor(a.log)
	m := math.Pow(10, a.log-exp)
	if prec >= 0 {
		scale := math.Pow(10, float64(prec))
		if math.Round(m*scale)/scale >= 10 {
			m /= 10
			exp++
		}
	}
	if a.neg {
		m = -m
	}
	return strconv.FormatFloat(m, 'f', prec, 64) + "e" + strconv.FormatFloat(exp, 'f', -1, 64)
}

// MarshalText encodes a with a lossless mantissa.
func (a LogNum) MarshalText() ([]byte, error) {
	return []byte(a.Format(-1)), nil
}

// UnmarshalText parses text produced by MarshalText or any form Parse accepts.
func (a *LogNum) UnmarshalText(text []byte) error {
	n, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = n
	return nil
}

// MarshalJSON encodes a as a JSON string.
func (a LogNum) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.Format(-1))), nil
}

// UnmarshalJSON accepts a JSON string ("1e400") or a bare JSON number (1500).
// null leaves a unchanged.
func (a *LogNum) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		return nil
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		unq, err := strconv.Unquote(text)
		if err != nil {
			return &ParseError{Input: text, Err: err}
		}
		text = unq
	}
	return a.UnmarshalText([]byte(text))
}

// MarshalYAML encodes a as a YAML string scalar.
func (a LogNum) MarshalYAML() (any, error) {
	return a.Format(-1), nil
}

// UnmarshalYAML accepts any scalar Parse understands, quoted or not, so that
// "1e400" (which YAML would otherwise resolve to +Inf) keeps its full range.
func (a *LogNum) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("lognum: line %d: expected a scalar, got YAML kind %d", node.Line, node.Kind)
	}
	return a.UnmarshalText([]byte(node.Value))
}
