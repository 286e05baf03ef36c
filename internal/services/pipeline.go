package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vvka-141/tripload/internal/db"
	"github.com/vvka-141/tripload/internal/logging"
	"github.com/vvka-141/tripload/internal/transform"
	"github.com/vvka-141/tripload/pkg/tripload"
)

type sessionOpener func(ctx context.Context, connector tripload.Connector) (tripload.Session, error)

func openConnSession(ctx context.Context, connector tripload.Connector) (tripload.Session, error) {
	return db.OpenSession(ctx, connector)
}

// Pipeline runs a complete load: transform, connect, reference tables, fact
// table, foreign keys. Stages run strictly in sequence on one session; the
// first failure aborts the run.
//
// Thread-Safety: NOT safe for concurrent Run() calls. Concurrent runs against
// the same database also race on the populate-if-empty checks.
type Pipeline struct {
	connectorFactory tripload.ConnectorFactory
	logger           tripload.Logger
	openSession      sessionOpener
	newRunID         func() string
}

// NewPipeline panics on nil dependencies.
func NewPipeline(connectorFactory tripload.ConnectorFactory, logger tripload.Logger) *Pipeline {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &Pipeline{
		connectorFactory: connectorFactory,
		logger:           logger,
		openSession:      openConnSession,
		newRunID:         func() string { return uuid.NewString() },
	}
}

// Run executes the stages cfg enables. On failure the returned summary
// describes the stages that completed.
func (p *Pipeline) Run(ctx context.Context, cfg tripload.LoadConfig) (*tripload.LoadSummary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &tripload.LoadSummary{RunID: p.newRunID()}
	defer func() { summary.Duration = time.Since(start) }()

	p.logger.Verbose("Run %s", summary.RunID)

	if !cfg.SkipTransform {
		report, err := transform.NewTransformer(p.logger, cfg.StrictSchema).Run(ctx, cfg.SourcePath(), cfg.OutputPath())
		if err != nil {
			return summary, fmt.Errorf("transform stage failed: %w", err)
		}
		summary.Transform = report
	}

	if cfg.SkipDatabase {
		return summary, nil
	}

	if err := p.load(ctx, cfg, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func (p *Pipeline) load(ctx context.Context, cfg tripload.LoadConfig, summary *tripload.LoadSummary) error {
	connConfig := *cfg.Connection
	if connConfig.AppName == "" {
		connConfig.AppName = fmt.Sprintf("%s/%s", tripload.ApplicationNamePrefix, summary.RunID)
	}

	connector, err := p.connectorFactory(&connConfig)
	if err != nil {
		return fmt.Errorf("failed to create connector: %w", err)
	}

	p.logger.Info("Connecting to postgres")
	session, err := p.openSession(ctx, connector)
	if err != nil {
		return err
	}
	defer func() {
		// Close even when ctx is already cancelled.
		if cerr := session.Close(context.WithoutCancel(ctx)); cerr != nil {
			p.logger.Warn("%v", cerr)
			return
		}
		p.logger.Info("Connection terminated")
	}()
	p.logger.Info("Connected to Postgres")

	summary.References, err = NewReferenceStage(p.logger).Run(ctx, session, cfg.LookupPath())
	if err != nil {
		return fmt.Errorf("reference stage failed: %w", err)
	}

	facts, err := NewFactStage(p.logger).Run(ctx, session, cfg.OutputPath())
	if err != nil {
		return fmt.Errorf("fact stage failed: %w", err)
	}
	summary.FactsCopied = facts.Copied
	summary.FactsTotal = facts.Total

	summary.Constraints, err = NewConstraintStage(p.logger).Run(ctx, session)
	if err != nil {
		return fmt.Errorf("constraint stage failed: %w", err)
	}

	p.logger.Verbose("Loaded %s trip rows", logging.FormatCount(facts.Copied))
	return nil
}
