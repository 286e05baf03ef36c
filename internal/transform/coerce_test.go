package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/tripload/pkg/tripload"
)

func tripTable(t *testing.T) *Table {
	t.Helper()
	table := NewTable(
		Column{Name: "VendorID", Kind: KindInt},
		Column{Name: "passenger_count", Kind: KindFloat},
		Column{Name: "RatecodeID", Kind: KindFloat},
		Column{Name: "payment_type", Kind: KindInt},
		Column{Name: "PULocationID", Kind: KindInt},
		Column{Name: "DOLocationID", Kind: KindInt},
		Column{Name: "fare_amount", Kind: KindFloat},
	)
	require.NoError(t, table.AppendRow(int64(1), 2.0, 1.0, int64(1), int64(161), int64(236), 12.5))
	require.NoError(t, table.AppendRow(int64(2), nil, nil, nil, int64(43), int64(238), 7.9))
	require.NoError(t, table.AppendRow(nil, 1.0, 99.0, int64(2), nil, int64(1), 60.0))
	return table
}

func TestNormalize_AppliesDefaults(t *testing.T) {
	table := tripTable(t)

	result, err := Normalize(table, DefaultRules(), false)
	require.NoError(t, err)
	assert.Empty(t, result.Missing)
	assert.Equal(t, []string{"VendorID", "passenger_count", "RatecodeID", "payment_type", "PULocationID", "DOLocationID"}, result.Coerced)
	assert.Equal(t, map[string]int{"passenger_count": 1, "RatecodeID": 1, "payment_type": 1}, result.FilledNulls)

	col := func(name string) []any {
		c, ok := table.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, KindInt, c.Kind, name)
		return c.Values
	}

	assert.Equal(t, []any{int64(2), int64(1), int64(1)}, col("passenger_count"))
	assert.Equal(t, []any{int64(1), int64(99), int64(99)}, col("RatecodeID"))
	assert.Equal(t, []any{int64(1), int64(5), int64(2)}, col("payment_type"))
}

func TestNormalize_NullableColumnsStayNull(t *testing.T) {
	table := tripTable(t)

	_, err := Normalize(table, DefaultRules(), false)
	require.NoError(t, err)

	vendor, _ := table.Column("VendorID")
	assert.Nil(t, vendor.Values[2])
	pickup, _ := table.Column("PULocationID")
	assert.Nil(t, pickup.Values[2])
}

func TestNormalize_NeverNullForDefaultedColumns(t *testing.T) {
	table := tripTable(t)

	_, err := Normalize(table, DefaultRules(), false)
	require.NoError(t, err)

	for _, name := range []string{"passenger_count", "RatecodeID", "payment_type"} {
		c, _ := table.Column(name)
		for i, v := range c.Values {
			require.NotNil(t, v, "%s row %d", name, i)
			_, isInt := v.(int64)
			assert.True(t, isInt, "%s row %d is %T", name, i, v)
		}
	}
}

func TestNormalize_UntouchedColumns(t *testing.T) {
	table := tripTable(t)

	_, err := Normalize(table, DefaultRules(), false)
	require.NoError(t, err)

	fare, _ := table.Column("fare_amount")
	assert.Equal(t, KindFloat, fare.Kind)
	assert.Equal(t, []any{12.5, 7.9, 60.0}, fare.Values)
}

func TestNormalize_MissingColumns(t *testing.T) {
	table := NewTable(Column{Name: "VendorID", Kind: KindInt})
	require.NoError(t, table.AppendRow(int64(1)))

	result, err := Normalize(table, DefaultRules(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"passenger_count", "RatecodeID", "payment_type", "PULocationID", "DOLocationID"}, result.Missing)
	assert.Equal(t, []string{"VendorID"}, result.Coerced)
}

func TestNormalize_MissingColumnsStrict(t *testing.T) {
	table := NewTable(Column{Name: "VendorID", Kind: KindInt})

	result, err := Normalize(table, DefaultRules(), true)
	require.Error(t, err)
	assert.ErrorIs(t, err, tripload.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "RatecodeID")
	require.NotNil(t, result)
	assert.Len(t, result.Missing, 5)
}

func TestNormalize_RejectsNonNumeric(t *testing.T) {
	table := NewTable(Column{Name: "RatecodeID", Kind: KindString})
	require.NoError(t, table.AppendRow("JFK"))

	_, err := Normalize(table, DefaultRules(), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, tripload.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "RatecodeID row 0")
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    int64
		wantErr bool
	}{
		{"int", int64(7), 7, false},
		{"float whole", 99.0, 99, false},
		{"float truncates", 2.9, 2, false},
		{"negative float truncates toward zero", -2.9, -2, false},
		{"numeric string", " 5 ", 5, false},
		{"float string", "1.0", 1, false},
		{"bool", true, 1, false},
		{"nan", math.NaN(), 0, true},
		{"two to the 63 overflows", 9223372036854775808.0, 0, true},
		{"minus two to the 63", -9223372036854775808.0, math.MinInt64, false},
		{"below minus two to the 63", -1e19, 0, true},
		{"inf", math.Inf(1), 0, true},
		{"text", "cash", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := toInt64(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, tripload.ErrSchemaMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_NaNIsNull(t *testing.T) {
	table := NewTable(
		Column{Name: "VendorID", Kind: KindFloat},
		Column{Name: "passenger_count", Kind: KindFloat},
		Column{Name: "RatecodeID", Kind: KindFloat},
	)
	require.NoError(t, table.AppendRow(1.0, 1.0, 1.0))
	require.NoError(t, table.AppendRow(math.NaN(), 2.0, math.NaN()))
	require.NoError(t, table.AppendRow(2.0, math.NaN(), nil))

	result, err := Normalize(table, DefaultRules(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FilledNulls["passenger_count"])
	assert.Equal(t, 2, result.FilledNulls["RatecodeID"])

	vendor, _ := table.Column("VendorID")
	assert.Equal(t, []any{int64(1), nil, int64(2)}, vendor.Values)
	passengers, _ := table.Column("passenger_count")
	assert.Equal(t, []any{int64(1), int64(2), int64(1)}, passengers.Values)
	rate, _ := table.Column("RatecodeID")
	assert.Equal(t, []any{int64(1), int64(99), int64(99)}, rate.Values)
}
