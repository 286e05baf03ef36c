// Package fixtures builds small trip and zone lookup files shaped like the
// TLC yellow-taxi publications for tests.
package fixtures

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// TripRow mirrors the shape of a TLC yellow-taxi file, with the
// float-with-nulls identifier columns the loader coerces.
type TripRow struct {
	VendorID       *int32    `parquet:"VendorID"`
	Pickup         time.Time `parquet:"tpep_pickup_datetime"`
	Dropoff        time.Time `parquet:"tpep_dropoff_datetime"`
	PassengerCount *float64  `parquet:"passenger_count"`
	TripDistance   float64   `parquet:"trip_distance"`
	RatecodeID     *float64  `parquet:"RatecodeID"`
	StoreAndFwd    *string   `parquet:"store_and_fwd_flag"`
	PULocationID   int32     `parquet:"PULocationID"`
	DOLocationID   int32     `parquet:"DOLocationID"`
	PaymentType    *int64    `parquet:"payment_type"`
	FareAmount     float64   `parquet:"fare_amount"`
	TotalAmount    float64   `parquet:"total_amount"`
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// SampleTrips returns two trips: a fully populated one and one whose
// passenger_count, RatecodeID, store_and_fwd_flag and payment_type are null.
func SampleTrips() []TripRow {
	pickup := time.Date(2025, 1, 1, 0, 18, 38, 0, time.UTC)
	return []TripRow{
		{
			VendorID:       Ptr[int32](1),
			Pickup:         pickup,
			Dropoff:        pickup.Add(8 * time.Minute),
			PassengerCount: Ptr(1.0),
			TripDistance:   1.6,
			RatecodeID:     Ptr(1.0),
			StoreAndFwd:    Ptr("N"),
			PULocationID:   229,
			DOLocationID:   237,
			PaymentType:    Ptr[int64](1),
			FareAmount:     10,
			TotalAmount:    18,
		},
		{
			VendorID:     Ptr[int32](2),
			Pickup:       pickup.Add(time.Hour),
			Dropoff:      pickup.Add(time.Hour + 15*time.Minute),
			TripDistance: 3.12,
			PULocationID: 236,
			DOLocationID: 68,
			FareAmount:   17.7,
			TotalAmount:  24.35,
		},
	}
}

// WriteTrips writes rows as a parquet file at path.
func WriteTrips(path string, rows []TripRow) error {
	return parquet.WriteFile(path, rows)
}

// ZoneCount is the number of zones in the TLC lookup file.
const ZoneCount = 265

var boroughs = []string{"EWR", "Queens", "Bronx", "Manhattan", "Staten Island", "Brooklyn"}

// ZoneRecords returns the header and ZoneCount rows of a zone lookup file.
// The last two rows carry the Unknown and Outside of NYC placeholders.
func ZoneRecords() [][]string {
	records := [][]string{{"LocationID", "Borough", "Zone", "service_zone"}}
	for id := 1; id <= ZoneCount-2; id++ {
		borough := boroughs[id%len(boroughs)]
		service := "Boro Zone"
		if borough == "Manhattan" {
			service = "Yellow Zone"
		}
		records = append(records, []string{fmt.Sprint(id), borough, fmt.Sprintf("Zone %d", id), service})
	}
	records = append(records,
		[]string{"264", "Unknown", "N/A", "N/A"},
		[]string{"265", "N/A", "Outside of NYC", "N/A"},
	)
	return records
}

// WriteZoneLookup writes records as a quoted CSV file, optionally with a
// UTF-8 byte order mark.
func WriteZoneLookup(path string, records [][]string, withBOM bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if withBOM {
		if _, err := f.WriteString("\ufeff"); err != nil {
			return err
		}
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}
