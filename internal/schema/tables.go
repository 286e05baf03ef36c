package schema

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Column is one column of a table definition.
type Column struct {
	Name string
	Type string
}

// Table is a table the loader creates with CREATE TABLE IF NOT EXISTS.
type Table struct {
	Name    string
	Columns []Column
	// PrimaryKey names the column declared PRIMARY KEY, if any.
	PrimaryKey string
}

// CreateSQL renders the idempotent DDL for t.
func (t Table) CreateSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", t.Name)
	for i, col := range t.Columns {
		fmt.Fprintf(&b, "    %s %s", col.Name, col.Type)
		if col.Name == t.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if i < len(t.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");")
	return b.String()
}

// CountSQL returns the row-count query for t.
func (t Table) CountSQL() string {
	return "SELECT COUNT(*) FROM " + t.Name
}

// ColumnNames returns the declared column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether name is a column of t, compared the way
// PostgreSQL resolves unquoted identifiers.
func (t Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}

// CopySQL builds a COPY ... FROM STDIN statement for a CSV stream with a
// header row whose fields are columns, in that order.
func (t Table) CopySQL(columns []string) string {
	quoted := make([]string, len(columns))
	for i, name := range columns {
		quoted[i] = pgx.Identifier{strings.ToLower(name)}.Sanitize()
	}
	return fmt.Sprintf("COPY %s (%s) FROM STDIN WITH (FORMAT csv, HEADER true)",
		t.Name, strings.Join(quoted, ", "))
}

const (
	moneyType = "NUMERIC(10,2)"
)

var Vendors = Table{
	Name: "vendors",
	Columns: []Column{
		{"vendor_id", "INTEGER"},
		{"vendor_name", "VARCHAR(100)"},
	},
	PrimaryKey: "vendor_id",
}

var RateCodes = Table{
	Name: "rate_codes",
	Columns: []Column{
		{"rate_code_id", "INTEGER"},
		{"rate_description", "VARCHAR(50)"},
	},
	PrimaryKey: "rate_code_id",
}

var PaymentTypes = Table{
	Name: "payment_types",
	Columns: []Column{
		{"payment_type_id", "INTEGER"},
		{"payment_description", "VARCHAR(50)"},
	},
	PrimaryKey: "payment_type_id",
}

var TaxiZones = Table{
	Name: "taxi_zones",
	Columns: []Column{
		{"LocationID", "INTEGER"},
		{"Borough", "VARCHAR(50)"},
		{"Zone", "VARCHAR(100)"},
		{"service_zone", "VARCHAR(50)"},
	},
	PrimaryKey: "LocationID",
}

var YellowTripData = Table{
	Name: "yellow_tripdata",
	Columns: []Column{
		{"VendorID", "INTEGER"},
		{"tpep_pickup_datetime", "TIMESTAMP"},
		{"tpep_dropoff_datetime", "TIMESTAMP"},
		{"passenger_count", "INTEGER"},
		{"trip_distance", moneyType},
		{"RatecodeID", "INTEGER"},
		{"store_and_fwd_flag", "CHAR(1)"},
		{"PULocationID", "INTEGER"},
		{"DOLocationID", "INTEGER"},
		{"payment_type", "INTEGER"},
		{"fare_amount", moneyType},
		{"extra", moneyType},
		{"mta_tax", moneyType},
		{"tip_amount", moneyType},
		{"tolls_amount", moneyType},
		{"improvement_surcharge", moneyType},
		{"total_amount", moneyType},
		{"congestion_surcharge", moneyType},
		{"Airport_fee", moneyType},
		{"cbd_congestion_fee", moneyType},
	},
}
