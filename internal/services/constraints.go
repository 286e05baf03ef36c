package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/tripload/internal/db"
	"github.com/vvka-141/tripload/internal/schema"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// ConstraintStage adds the fact table's foreign keys that do not exist yet.
type ConstraintStage struct {
	logger tripload.Logger
}

func NewConstraintStage(logger tripload.Logger) *ConstraintStage {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ConstraintStage{logger: logger}
}

// Run checks each foreign key by name and adds the missing ones. Adding a key
// validates every existing row; a dangling reference fails with
// ErrConstraintViolation.
func (s *ConstraintStage) Run(ctx context.Context, session tripload.Session) ([]tripload.ConstraintResult, error) {
	s.logger.Info("Adding foreign key constraints...")

	results := make([]tripload.ConstraintResult, 0, len(schema.ForeignKeys))
	for _, fk := range schema.ForeignKeys {
		var exists bool
		err := session.QueryRow(ctx, schema.ConstraintExistsSQL, fk.Name, schema.YellowTripData.Name).Scan(&exists)
		if err != nil {
			return results, fmt.Errorf("failed to look up constraint %s: %w", fk.Name, db.Classify(err, tripload.ErrExecutionFailed))
		}

		if exists {
			s.logger.Info("✓ %s foreign key already exists", fk.Label)
			results = append(results, tripload.ConstraintResult{Name: fk.Name, Existed: true})
			continue
		}

		if _, err := session.Exec(ctx, fk.AddSQL()); err != nil {
			return results, fmt.Errorf("failed to add constraint %s: %w", fk.Name, db.Classify(err, tripload.ErrExecutionFailed))
		}
		s.logger.Info("✓ %s foreign key added", fk.Label)
		results = append(results, tripload.ConstraintResult{Name: fk.Name, Added: true})
	}

	s.logger.Info("All foreign keys configured!")
	return results, nil
}
