package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/tripload/internal/schema"
	"github.com/vvka-141/tripload/pkg/tripload"
)

type copyCall struct {
	sql  string
	body string
}

// fakeSession keeps row counts per table and constraint names in memory.
// INSERT and COPY statements add to the counts of the table they target.
type fakeSession struct {
	counts      map[string]int64
	constraints map[string]bool

	execs  []string
	copies []copyCall

	// execErrs fails the first Exec whose SQL contains the key.
	execErrs map[string]error
	copyErr  error
	countErr error

	closed   int
	closeErr error
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		counts:      make(map[string]int64),
		constraints: make(map[string]bool),
		execErrs:    make(map[string]error),
	}
}

func (f *fakeSession) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	for key, err := range f.execErrs {
		if strings.Contains(sql, key) {
			return pgconn.CommandTag{}, err
		}
	}

	switch {
	case strings.HasPrefix(sql, "INSERT INTO "):
		table := strings.Fields(sql)[2]
		rows := int64(len(args) / 2)
		f.counts[table] += rows
		return pgconn.NewCommandTag(fmt.Sprintf("INSERT 0 %d", rows)), nil
	case strings.HasPrefix(sql, "ALTER TABLE "):
		for _, fk := range schema.ForeignKeys {
			if strings.Contains(sql, "CONSTRAINT "+fk.Name+" ") {
				f.constraints[fk.Name] = true
			}
		}
		return pgconn.NewCommandTag("ALTER TABLE"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeSession) QueryRow(_ context.Context, sql string, args ...any) tripload.Row {
	switch {
	case strings.HasPrefix(sql, "SELECT COUNT(*) FROM "):
		if f.countErr != nil {
			return fakeRow{err: f.countErr}
		}
		table := strings.TrimPrefix(sql, "SELECT COUNT(*) FROM ")
		return fakeRow{value: f.counts[table]}
	case sql == schema.ConstraintExistsSQL:
		return fakeRow{value: f.constraints[args[0].(string)]}
	}
	return fakeRow{err: pgx.ErrNoRows}
}

func (f *fakeSession) CopyFrom(_ context.Context, r io.Reader, sql string) (int64, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	f.copies = append(f.copies, copyCall{sql: sql, body: string(body)})
	if f.copyErr != nil {
		return 0, f.copyErr
	}

	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	rows := int64(len(lines) - 1)
	table := strings.Fields(sql)[1]
	f.counts[table] += rows
	return rows, nil
}

func (f *fakeSession) Close(_ context.Context) error {
	f.closed++
	return f.closeErr
}

func (f *fakeSession) execsContaining(substr string) []string {
	var out []string
	for _, sql := range f.execs {
		if strings.Contains(sql, substr) {
			out = append(out, sql)
		}
	}
	return out
}

type fakeRow struct {
	value any
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("fakeRow scans exactly one value")
	}
	switch d := dest[0].(type) {
	case *int64:
		*d = r.value.(int64)
	case *bool:
		*d = r.value.(bool)
	default:
		return fmt.Errorf("fakeRow cannot scan into %T", dest[0])
	}
	return nil
}

type mockConnector struct{}

func (m *mockConnector) Connect(_ context.Context) (*pgx.Conn, error) {
	return nil, errors.New("mockConnector does not connect")
}
