// Package transform implements the first stage of a load run: it reads the
// columnar trip file into an in-memory Table, applies the integer coercions
// the fact table needs, and renders the result as a header-first CSV file
// suitable for COPY ... FROM STDIN WITH (FORMAT csv, HEADER true).
//
// Cell values are nil (null), int64, float64, string, bool or time.Time.
package transform
