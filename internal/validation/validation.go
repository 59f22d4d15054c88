package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if value == "" {
		return
	}
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 || !strings.Contains(value[at:], ".") {
		v[field] = "invalid_email"
	}
}

func MinLen(field, value string, min int, v Violations) {
	if len(value) < min {
		v[field] = "too_short"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func MinInt(field string, val, minVal int, v Violations) {
	if val < minVal {
		v[field] = "out_of_range"
	}
}

func RangeInt(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if val.Sign() <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

// OneOf checks membership in a closed enumeration. Empty values are left to
// Required so optional enum fields stay optional.
func OneOf(field, value string, allowed func(string) bool, v Violations) {
	if value == "" {
		return
	}
	if !allowed(value) {
		v[field] = "invalid_value"
	}
}
