package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dayLayout       = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
	moneyPlaces     = 2

	// Amounts outside these bounds are treated as unparsable. Rounding a
	// decimal with a huge exponent expands it digit by digit.
	maxMoneyText   = 64
	maxMoneyDigits = 20 // integer digits
	maxMoneyScale  = 30 // fractional digits
)

// isoLayouts are tried in order when a calendar day arrives as text.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	dayLayout,
}

// coerce converts v to the Go type of kind, or returns nil when v is null or
// cannot be parsed. It never panics.
func coerce(kind Kind, v any) any {
	var (
		out any
		ok  bool
	)
	switch kind {
	case KindInteger:
		out, ok = toInt(v)
	case KindMoney:
		out, ok = toMoney(v)
	case KindText:
		out, ok = toText(v)
	case KindBoolean:
		out, ok = toBool(v)
	case KindDay:
		out, ok = toDay(v)
	case KindTimestamp:
		out, ok = toTimestamp(v)
	case KindJSONText:
		out, ok = toJSONText(v)
	}
	if !ok {
		return nil
	}
	return out
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return uintToInt(uint64(x))
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return uintToInt(x)
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case decimal.Decimal:
		return floatToInt(x.InexactFloat64())
	case json.Number:
		return parseInt(x.String())
	case string:
		return parseInt(x)
	case []byte:
		return parseInt(string(x))
	}
	return 0, false
}

// parseInt accepts integer text, falling back to float text truncated toward
// zero so that "3.0" becomes 3.
func parseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return floatToInt(f)
}

func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}

func uintToInt(u uint64) (int64, bool) {
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func toMoney(v any) (decimal.Decimal, bool) {
	var (
		d   decimal.Decimal
		err error
	)
	switch x := v.(type) {
	case nil, bool:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		d = x
	case float32:
		if !finite(float64(x)) {
			return decimal.Decimal{}, false
		}
		d = decimal.NewFromFloat32(x)
	case float64:
		if !finite(x) {
			return decimal.Decimal{}, false
		}
		d = decimal.NewFromFloat(x)
	case json.Number:
		d, err = parseDecimal(x.String())
	case string:
		d, err = parseDecimal(x)
	case []byte:
		d, err = parseDecimal(string(x))
	default:
		n, ok := toInt(v)
		if !ok {
			return decimal.Decimal{}, false
		}
		d = decimal.NewFromInt(n)
	}
	if err != nil || !moneyInRange(d) {
		return decimal.Decimal{}, false
	}
	return d.Round(moneyPlaces), true
}

func moneyInRange(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < -maxMoneyScale || exp > maxMoneyDigits {
		return false
	}
	return d.NumDigits()+exp <= maxMoneyDigits
}

func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	case len(s) > maxMoneyText:
		return decimal.Decimal{}, fmt.Errorf("amount too long")
	}
	return decimal.NewFromString(s)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func toText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case time.Time:
		return x.Format(timestampLayout), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return fmt.Sprint(v), true
}

func toBool(v any) (bool, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return false, false
	case bool:
		return x, true
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		s, _ = toText(v)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "t":
		return true, true
	case "0", "false", "no", "n", "f":
		return false, true
	}
	return false, false
}

// toDay returns a calendar day as YYYY-MM-DD text.
func toDay(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case time.Time:
		return x.Format(dayLayout), true
	case string:
		s = x
	case []byte:
		s = string(x)
	default:
		return "", false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dayLayout), true
		}
	}
	return "", false
}

// toTimestamp passes native timestamps through in the store's text layout and
// keeps any other value as text, unvalidated.
func toTimestamp(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case time.Time:
		return x.Format(timestampLayout), true
	}
	s, _ := toText(v)
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// toJSONText encodes lists and mappings as JSON and keeps text unchanged.
func toJSONText(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case []any, []string, map[string]any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(x); err != nil {
			return "", false
		}
		return strings.TrimSuffix(buf.String(), "\n"), true
	}
	return toText(v)
}
