package schema

import (
	"fmt"
	"strings"
)

// Entry is one row of a fixed enumeration.
type Entry struct {
	ID          int
	Description string
}

// Enumeration is a reference table populated from a fixed list of entries.
type Enumeration struct {
	Table   Table
	Label   string
	Entries []Entry
}

// InsertSQL builds a single multi-row INSERT for all entries, with positional
// arguments returned alongside.
func (e Enumeration) InsertSQL() (string, []any) {
	cols := e.Table.ColumnNames()
	rows := make([]string, len(e.Entries))
	args := make([]any, 0, len(e.Entries)*2)
	for i, entry := range e.Entries {
		rows[i] = fmt.Sprintf("($%d, $%d)", 2*i+1, 2*i+2)
		args = append(args, entry.ID, entry.Description)
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		e.Table.Name, strings.Join(cols, ", "), strings.Join(rows, ", "))
	return sql, args
}

// Codes substituted for nulls during the transform stage.
const (
	UnknownRateCode       = 99
	UnknownPaymentType    = 5
	DefaultPassengerCount = 1
)

var VendorEnumeration = Enumeration{
	Table: Vendors,
	Label: "Vendors",
	Entries: []Entry{
		{1, "Creative Mobile Technologies, LLC"},
		{2, "Curb Mobility, LLC"},
		{6, "Myle Technologies Inc"},
		{7, "Helix"},
	},
}

var RateCodeEnumeration = Enumeration{
	Table: RateCodes,
	Label: "Rate codes",
	Entries: []Entry{
		{1, "Standard rate"},
		{2, "JFK"},
		{3, "Newark"},
		{4, "Nassau or Westchester"},
		{5, "Negotiated fare"},
		{6, "Group ride"},
		{UnknownRateCode, "Null/unknown"},
	},
}

var PaymentTypeEnumeration = Enumeration{
	Table: PaymentTypes,
	Label: "Payment types",
	Entries: []Entry{
		{0, "Flex Fare trip"},
		{1, "Credit card"},
		{2, "Cash"},
		{3, "No charge"},
		{4, "Dispute"},
		{UnknownPaymentType, "Unknown"},
		{6, "Voided trip"},
	},
}

// Enumerations lists the fixed reference tables in load order.
var Enumerations = []Enumeration{
	VendorEnumeration,
	RateCodeEnumeration,
	PaymentTypeEnumeration,
}

// ZoneLookupColumns are the header fields the zone lookup CSV must carry.
var ZoneLookupColumns = []string{"LocationID", "Borough", "Zone", "service_zone"}
