package transform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vvka-141/tripload/pkg/tripload"
)

// readBatchSize is the number of rows pulled from a row group per call.
const readBatchSize = 4096

// ReadParquet loads a flat Parquet file into memory.
//
// Nested columns and INT96 timestamps are rejected with
// tripload.ErrSchemaMismatch. A missing file wraps tripload.ErrSourceNotFound.
func ReadParquet(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("trip file %s: %w", path, tripload.ErrSourceNotFound)
		}
		return nil, fmt.Errorf("failed to open trip file %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat trip file %s: %w", path, err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file %s: %w", path, err)
	}

	decoders, err := columnDecoders(pf.Schema())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	columns := make([]Column, len(decoders))
	for i, d := range decoders {
		columns[i] = Column{Name: d.name, Kind: d.kind, Values: make([]any, 0, pf.NumRows())}
	}
	table := NewTable(columns...)

	buf := make([]parquet.Row, readBatchSize)
	values := make([]any, len(decoders))
	for _, rowGroup := range pf.RowGroups() {
		if err := readRowGroup(rowGroup, decoders, table, buf, values); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return table, nil
}

func readRowGroup(rowGroup parquet.RowGroup, decoders []columnDecoder, table *Table, buf []parquet.Row, values []any) error {
	rows := rowGroup.Rows()
	defer rows.Close()

	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for i := range values {
				values[i] = nil
			}
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(decoders) || v.IsNull() {
					continue
				}
				decoded, decErr := decoders[c].decode(v)
				if decErr != nil {
					return fmt.Errorf("row %d column %s: %w", table.NumRows(), decoders[c].name, decErr)
				}
				values[c] = decoded
			}
			if appendErr := table.AppendRow(values...); appendErr != nil {
				return appendErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read rows: %w", err)
		}
		if n == 0 {
			return nil
		}
	}
}

type columnDecoder struct {
	name   string
	kind   Kind
	decode func(parquet.Value) (any, error)
}

func columnDecoders(schema *parquet.Schema) ([]columnDecoder, error) {
	paths := schema.Columns()
	decoders := make([]columnDecoder, len(paths))
	for _, path := range paths {
		if len(path) != 1 {
			return nil, fmt.Errorf("nested column %v is not supported: %w", path, tripload.ErrSchemaMismatch)
		}
		leaf, ok := schema.Lookup(path...)
		if !ok {
			return nil, fmt.Errorf("column %s not found in schema: %w", path[0], tripload.ErrSchemaMismatch)
		}
		d, err := newColumnDecoder(path[0], leaf.Node)
		if err != nil {
			return nil, err
		}
		decoders[leaf.ColumnIndex] = d
	}
	return decoders, nil
}

func newColumnDecoder(name string, node parquet.Node) (columnDecoder, error) {
	typ := node.Type()

	if lt := typ.LogicalType(); lt != nil {
		switch {
		case lt.Timestamp != nil:
			unit := lt.Timestamp.Unit
			var toTime func(int64) time.Time
			switch {
			case unit.Nanos != nil:
				toTime = func(v int64) time.Time { return time.Unix(0, v) }
			case unit.Micros != nil:
				toTime = time.UnixMicro
			default:
				toTime = time.UnixMilli
			}
			return columnDecoder{name: name, kind: KindTime, decode: func(v parquet.Value) (any, error) {
				return toTime(v.Int64()).UTC(), nil
			}}, nil
		case lt.Date != nil:
			return columnDecoder{name: name, kind: KindTime, decode: func(v parquet.Value) (any, error) {
				return time.Unix(int64(v.Int32())*86400, 0).UTC(), nil
			}}, nil
		}
	}

	switch typ.Kind() {
	case parquet.Boolean:
		return columnDecoder{name: name, kind: KindBool, decode: func(v parquet.Value) (any, error) {
			return v.Boolean(), nil
		}}, nil
	case parquet.Int32:
		return columnDecoder{name: name, kind: KindInt, decode: func(v parquet.Value) (any, error) {
			return int64(v.Int32()), nil
		}}, nil
	case parquet.Int64:
		return columnDecoder{name: name, kind: KindInt, decode: func(v parquet.Value) (any, error) {
			return v.Int64(), nil
		}}, nil
	case parquet.Float:
		return columnDecoder{name: name, kind: KindFloat, decode: func(v parquet.Value) (any, error) {
			return float64(v.Float()), nil
		}}, nil
	case parquet.Double:
		return columnDecoder{name: name, kind: KindFloat, decode: func(v parquet.Value) (any, error) {
			return v.Double(), nil
		}}, nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return columnDecoder{name: name, kind: KindString, decode: func(v parquet.Value) (any, error) {
			return string(v.ByteArray()), nil
		}}, nil
	default:
		return columnDecoder{}, fmt.Errorf("column %s has unsupported physical type %s: %w",
			name, typ.Kind(), tripload.ErrSchemaMismatch)
	}
}
