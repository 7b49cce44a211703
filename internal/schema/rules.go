package schema

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// jsonNumber is the number grammar of RFC 8259
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var (
	errNotString = validation.NewError("validation_not_string", "must be a string")
	errNotCode   = validation.NewError("validation_not_code", "must be a string or an integer")
	errNotAmount = validation.NewError("validation_not_amount", "must be a number")
	errNegative  = validation.NewError("validation_not_positive", "must be greater than zero")
)

func textRule(value interface{}) error {
	if value == nil {
		return nil
	}
	if _, ok := value.(string); !ok {
		return errNotString
	}
	return nil
}

func codeRule(value interface{}) error {
	if value == nil {
		return nil
	}
	if _, ok := codeString(value); !ok {
		return errNotCode
	}
	return nil
}

func amountRule(value interface{}) error {
	if value == nil {
		return nil
	}
	f, ok := amountValue(value)
	if !ok {
		return errNotAmount
	}
	if f <= 0 {
		return errNegative
	}
	return nil
}

// codeString renders shortcodes, phone numbers and identifier types,
// which callers pass either as strings or as integers.
func codeString(v interface{}) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case json.Number:
		if _, err := n.Int64(); err != nil {
			return "", false
		}
		return n.String(), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int:
		return strconv.Itoa(n), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	default:
		return "", false
	}
}

// amountValue accepts finite numbers and strings spelled as JSON numbers,
// so a normalized amount always encodes.
func amountValue(v interface{}) (float64, bool) {
	f, ok := rawAmount(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func rawAmount(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case string:
		return numericString(n)
	case json.Number:
		return numericString(n.String())
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// numericString rejects forms ParseFloat allows but JSON does not, such as
// "+5", ".5", "5.", "0x10", "NaN" and "Inf".
func numericString(s string) (float64, bool) {
	if !jsonNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
