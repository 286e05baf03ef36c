package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/tripload/internal/schema"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// Rule coerces one column to integers. Nulls are replaced by Default when it
// is set and kept as nulls otherwise.
type Rule struct {
	Column  string
	Default *int64
}

func fill(v int64) *int64 { return &v }

// DefaultRules returns the coercions applied to NYC yellow-taxi trip data.
// Identifier columns often arrive as floating point because of nulls.
func DefaultRules() []Rule {
	return []Rule{
		{Column: "VendorID"},
		{Column: "passenger_count", Default: fill(schema.DefaultPassengerCount)},
		{Column: "RatecodeID", Default: fill(schema.UnknownRateCode)},
		{Column: "payment_type", Default: fill(schema.UnknownPaymentType)},
		{Column: "PULocationID"},
		{Column: "DOLocationID"},
	}
}

// NormalizeResult records what Normalize did.
type NormalizeResult struct {
	Coerced     []string
	Missing     []string
	FilledNulls map[string]int
}

// Normalize applies rules to t in place.
//
// A rule whose column is absent is recorded in Missing. With strict set the
// absence is an error wrapping tripload.ErrSchemaMismatch; otherwise the rule
// is skipped and the caller decides how loudly to report it.
func Normalize(t *Table, rules []Rule, strict bool) (*NormalizeResult, error) {
	result := &NormalizeResult{FilledNulls: make(map[string]int)}

	for _, rule := range rules {
		col, ok := t.Column(rule.Column)
		if !ok {
			result.Missing = append(result.Missing, rule.Column)
			continue
		}
		filled, err := coerceColumn(col, rule.Default)
		if err != nil {
			return nil, err
		}
		result.Coerced = append(result.Coerced, rule.Column)
		if filled > 0 {
			result.FilledNulls[rule.Column] = filled
		}
	}

	if strict && len(result.Missing) > 0 {
		return result, fmt.Errorf("source is missing column(s) %s: %w",
			strings.Join(result.Missing, ", "), tripload.ErrSchemaMismatch)
	}
	return result, nil
}

func coerceColumn(col *Column, def *int64) (int, error) {
	filled := 0
	for i, v := range col.Values {
		if isMissing(v) {
			if def != nil {
				col.Values[i] = *def
				filled++
			}
			continue
		}
		n, err := toInt64(v)
		if err != nil {
			return 0, fmt.Errorf("column %s row %d: %w", col.Name, i, err)
		}
		col.Values[i] = n
	}
	col.Kind = KindInt
	return filled, nil
}

// isMissing reports whether v is a null cell. A NaN float counts as null.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	f, ok := v.(float64)
	return ok && math.IsNaN(f)
}

// toInt64 truncates floats toward zero, like an integer cast.
func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("cannot convert %v to integer: %w", x, tripload.ErrSchemaMismatch)
		}
		if x >= 1<<63 || x < -1<<63 {
			return 0, fmt.Errorf("value %v overflows int64: %w", x, tripload.ErrSchemaMismatch)
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to integer: %w", x, tripload.ErrSchemaMismatch)
		}
		return toInt64(f)
	case time.Time:
		return 0, fmt.Errorf("cannot convert timestamp to integer: %w", tripload.ErrSchemaMismatch)
	default:
		return 0, fmt.Errorf("cannot convert %T to integer: %w", v, tripload.ErrSchemaMismatch)
	}
}
