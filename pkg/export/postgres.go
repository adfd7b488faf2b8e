// pkg/export/postgres.go
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/config"
	"github.com/sapore-ops/scale-audit/pkg/model"
)

// PostgresWriter writes the consolidated dataset into a PostgreSQL table.
// The table holds exactly one run's dataset; it is replaced on every write.
type PostgresWriter struct {
	db     *sqlx.DB
	cfg    *config.PostgresConfig
	logger *zap.Logger
}

// NewPostgresWriter connects to PostgreSQL and prepares the output table.
func NewPostgresWriter(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*PostgresWriter, error) {
	if cfg == nil {
		return nil, errors.New("postgres configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	logger.Info("Connecting to PostgreSQL",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database))

	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	writer := &PostgresWriter{db: db, cfg: cfg, logger: logger}
	if err := writer.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return writer, nil
}

// Close closes the database connection.
func (w *PostgresWriter) Close() error {
	w.logger.Info("Closing PostgreSQL connection")
	return w.db.Close()
}

func (w *PostgresWriter) tableName() string {
	return fmt.Sprintf("%s.%s", w.cfg.Schema, w.cfg.Table)
}

// ensureTable creates the output table when it does not exist yet.
func (w *PostgresWriter) ensureTable(ctx context.Context) error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			restaurant TEXT NOT NULL,
			scale TEXT,
			shift TEXT,
			time TEXT,
			stage TEXT,
			category TEXT,
			product TEXT,
			container TEXT,
			weight DOUBLE PRECISION,
			service TEXT,
			error TEXT,
			written_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`, w.tableName())

	execCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := w.db.ExecContext(execCtx, createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.tableName(), err)
	}

	w.logger.Debug("Ensured output table exists", zap.String("table", w.tableName()))
	return nil
}

// Write replaces the table contents with the given records in batches.
func (w *PostgresWriter) Write(ctx context.Context, records []model.WeighingRecord) error {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				w.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	// One dataset per run: previous contents are replaced, not appended to.
	if _, err = tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", w.tableName())); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", w.tableName(), err)
	}

	const batchSize = 500
	columns := []string{
		"date", "restaurant", "scale", "shift", "time", "stage",
		"category", "product", "container", "weight", "service", "error",
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[start:end]
		placeholders := make([]string, len(batch))
		args := make([]interface{}, 0, len(batch)*len(columns))

		for i := range batch {
			rec := &batch[i]
			base := i * len(columns)
			slots := make([]string, len(columns))
			for j := range columns {
				slots[j] = fmt.Sprintf("$%d", base+j+1)
			}
			placeholders[i] = fmt.Sprintf("(%s)", strings.Join(slots, ", "))

			var weight interface{}
			if rec.WeightKnown {
				weight = rec.Weight
			}
			args = append(args,
				rec.Date, rec.Restaurant, nullable(rec.Scale), nullable(rec.Shift),
				nullable(rec.Time), nullable(rec.Stage), nullable(rec.Category),
				nullable(rec.Product), nullable(rec.Container), weight,
				nullable(rec.Service), nullable(rec.Error),
			)
		}

		query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
			w.tableName(), strings.Join(columns, ", "), strings.Join(placeholders, ", "))

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", start, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	w.logger.Info("Dataset written to PostgreSQL",
		zap.String("table", w.tableName()),
		zap.Int("rows", len(records)))

	return nil
}

// nullable maps empty strings to SQL NULL.
func nullable(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
