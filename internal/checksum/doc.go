// Package checksum fingerprints the files a run reads and writes.
//
// The transform stage records the SHA-256 of the Parquet source and of the
// CSV it produced, so two runs can be compared without keeping the files:
//
//	sum, size, err := checksum.File("data/yellow_tripdata_2025-01.parquet")
//
// Files are streamed through the hash; nothing is held in memory.
package checksum
