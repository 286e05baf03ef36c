// Package schema holds the relational layout the loader creates: the four
// reference tables with their fixed enumerations, the yellow_tripdata fact
// table and the foreign keys that tie them together.
//
// Identifiers are left unquoted in the DDL, so PostgreSQL folds them to lower
// case: the LocationID column of taxi_zones is stored as locationid. Every
// statement built from this package relies on that folding.
package schema
