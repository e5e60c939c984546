package validators

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	msgMissing     = "Missing data for required field."
	msgBlank       = "Data not provided."
	msgNull        = "Field may not be null."
	msgNotString   = "Not a valid string."
	msgNotInteger  = "Not a valid integer."
	msgNotEmail    = "Not a valid email address."
	msgNonNegative = "Must be greater than or equal to 0."
)

var validate = validator.New()

// stringRule returns an empty string when s passes, otherwise the failure message.
type stringRule func(s string) string

// intRule is the integer counterpart of stringRule.
type intRule func(n int) string

func notBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return msgBlank
	}
	return ""
}

func emailShaped(s string) string {
	if validate.Var(s, "required,email") != nil {
		return msgNotEmail
	}
	return ""
}

func oneOf(msg string, allowed ...string) stringRule {
	return func(s string) string {
		for _, a := range allowed {
			if s == a {
				return ""
			}
		}
		return msg
	}
}

func nonZero(n int) string {
	if n == 0 {
		return msgBlank
	}
	return ""
}

func nonNegative(n int) string {
	if n < 0 {
		return msgNonNegative
	}
	return ""
}

// fields reads typed values out of raw input, collecting every failure.
type fields struct {
	in  map[string]any
	err *ValidationError
}

func newFields(in map[string]any) *fields {
	return &fields{in: in, err: &ValidationError{}}
}

// present reports whether any of keys appears in the input.
func (f *fields) present(keys ...string) bool {
	for _, k := range keys {
		if _, ok := f.in[k]; ok {
			return true
		}
	}
	return false
}

func (f *fields) lookup(name string, required bool) (any, bool) {
	raw, ok := f.in[name]
	if !ok {
		if required {
			f.err.Add(name, msgMissing)
		}
		return nil, false
	}
	if raw == nil {
		f.err.Add(name, msgNull)
		return nil, false
	}
	return raw, true
}

// text returns the value of a string field and whether it is present and valid.
func (f *fields) text(name string, required bool, rules ...stringRule) (string, bool) {
	raw, ok := f.lookup(name, required)
	if !ok {
		return "", false
	}
	s, isString := raw.(string)
	if !isString {
		f.err.Add(name, msgNotString)
		return "", false
	}
	valid := true
	for _, rule := range rules {
		if msg := rule(s); msg != "" {
			f.err.Add(name, msg)
			valid = false
		}
	}
	return s, valid
}

// integer returns the value of an integer field and whether it is present and valid.
func (f *fields) integer(name string, required bool, rules ...intRule) (int, bool) {
	raw, ok := f.lookup(name, required)
	if !ok {
		return 0, false
	}
	n, isInt := toInt(raw)
	if !isInt {
		f.err.Add(name, msgNotInteger)
		return 0, false
	}
	valid := true
	for _, rule := range rules {
		if msg := rule(n); msg != "" {
			f.err.Add(name, msg)
			valid = false
		}
	}
	return n, valid
}

// toInt accepts JSON integers and decimal strings; query string values arrive as strings.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
