package schema

import "fmt"

// ForeignKey is a named constraint on the fact table.
type ForeignKey struct {
	Name       string
	Label      string
	Column     string
	References Table
	RefColumn  string
}

// AddSQL renders the ALTER TABLE statement that creates the constraint.
func (fk ForeignKey) AddSQL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		YellowTripData.Name, fk.Name, fk.Column, fk.References.Name, fk.RefColumn)
}

// ConstraintExistsSQL checks the catalog for a constraint by name and table.
// information_schema stores the folded (lower case) names.
const ConstraintExistsSQL = `
SELECT EXISTS (
    SELECT 1 FROM information_schema.table_constraints
    WHERE constraint_name = $1 AND table_name = $2
)`

// ForeignKeys lists the fact table constraints in the order they are added.
var ForeignKeys = []ForeignKey{
	{Name: "fk_vendor", Label: "Vendor", Column: "VendorID", References: Vendors, RefColumn: "vendor_id"},
	{Name: "fk_rate_code", Label: "Rate code", Column: "RatecodeID", References: RateCodes, RefColumn: "rate_code_id"},
	{Name: "fk_payment_type", Label: "Payment type", Column: "payment_type", References: PaymentTypes, RefColumn: "payment_type_id"},
	{Name: "fk_pickup_location", Label: "Pickup location", Column: "PULocationID", References: TaxiZones, RefColumn: "LocationID"},
	{Name: "fk_dropoff_location", Label: "Dropoff location", Column: "DOLocationID", References: TaxiZones, RefColumn: "LocationID"},
}
