package telemetry

import (
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	DBSystem         string // defaults to "postgresql"
	WithoutVariables bool   // keep bound values out of db.statement
	// TracerProvider overrides the global provider, mainly for tests
	TracerProvider trace.TracerProvider
}

// RegisterDBTracing instruments db with otelgorm and annotates each statement
// span with its table and affected rows.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem), otelgorm.WithoutMetrics()}
	if cfg.WithoutVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	// Registered ahead of the plugin so they run while its statement span is still open
	cb := db.Callback()
	registrations := []error{
		cb.Query().After("gorm:query").Register("feed:annotate_query", annotateSpan),
		cb.Update().After("gorm:update").Register("feed:annotate_update", annotateSpan),
		cb.Create().After("gorm:create").Register("feed:annotate_create", annotateSpan),
		cb.Row().After("gorm:row").Register("feed:annotate_row", annotateSpan),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("without_variables", cfg.WithoutVariables),
	)
	return nil
}

func annotateSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
