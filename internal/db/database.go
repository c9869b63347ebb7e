package db

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type DatabaseConnection struct {
	*pgxpool.Pool
}

const DBRetryCount = 15

// NewDatabaseConnection creates a new database connection
func NewDatabaseConnection(ctx context.Context, pool *pgxpool.Pool) (*DatabaseConnection, error) {
	for i := range DBRetryCount {
		err := pool.Ping(ctx)
		if err == nil {
			return &DatabaseConnection{pool}, nil
		}

		// Golden ratio backoff
		fib := 1.61803398875
		sleep := time.Duration((float64(i) * fib)) * time.Second
		slog.Warn("could not ping the database", "error", err, "retry_in", sleep)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}

	return nil, fmt.Errorf("could not connect to database after %d retries", DBRetryCount)
}

// Close closes the database connection
func (db *DatabaseConnection) Close() {
	db.Pool.Close()
}

func (db *DatabaseConnection) Queries(ctx context.Context) *Queries {
	return New(db)
}

func (db *DatabaseConnection) NewWithTX(ctx context.Context) (*Queries, pgx.Tx, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return New(tx), tx, nil
}

// SeedColor is one entry of the fixed comment palette.
type SeedColor struct {
	Name         string
	ResolveColor string
}

// DefaultColors is inserted into an empty colors table at startup.
var DefaultColors = []SeedColor{
	{Name: "Blue", ResolveColor: "#4cb7e3"},
	{Name: "Cyan", ResolveColor: "#E0FFFF"},
	{Name: "Green", ResolveColor: "#6AA84F"},
	{Name: "Pink", ResolveColor: "#c90076"},
	{Name: "Red", ResolveColor: "#FF0000"},
	{Name: "Yellow", ResolveColor: "#ffd966"},
}

// Seed populates the colors table when it is empty. It runs in a single
// transaction so a partially seeded palette is never visible.
func (db *DatabaseConnection) Seed(ctx context.Context) error {
	q, tx, err := db.NewWithTX(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	count, err := q.CountColors(ctx)
	if err != nil {
		return fmt.Errorf("count colors: %w", err)
	}
	if count > 0 {
		slog.Info("Color palette already seeded", "count", count)
		return nil
	}

	for _, c := range DefaultColors {
		if err := q.InsertColor(ctx, &InsertColorParams{Name: c.Name, ResolveColor: c.ResolveColor}); err != nil {
			return fmt.Errorf("insert color %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit color seed: %w", err)
	}
	slog.Info("Seeded color palette", "count", len(DefaultColors))
	return nil
}

//go:embed sql/migrations/*.sql
var embedMigrations embed.FS

// Migrate runs the goose migrations
func (db *DatabaseConnection) Migrate(ctx context.Context) error {
	goose.SetBaseFS(embedMigrations)

	err := goose.SetDialect("postgres")
	if err != nil {
		return err
	}

	stdDb := stdlib.OpenDBFromPool(db.Pool)
	defer stdDb.Close()

	currentVersion, err := goose.GetDBVersionContext(ctx, stdDb)
	if err != nil {
		return err
	}

	migrations, err := goose.CollectMigrations("sql/migrations", 0, goose.MaxVersion)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		slog.Info("migration embedded", "source", m.Source, "version", m.Version, "current", m.Version == currentVersion)
	}

	var targetVersion int64
	if down, ok := os.LookupEnv("GOOSE_DOWN_TO"); ok {
		targetVersion, err = strconv.ParseInt(down, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse GOOSE_DOWN_TO version: %w", err)
		}
		return goose.DownToContext(ctx, stdDb, "sql/migrations", targetVersion)
	}

	targetVersion = goose.MaxVersion
	if up, ok := os.LookupEnv("GOOSE_UP_TO"); ok {
		targetVersion, err = strconv.ParseInt(up, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse GOOSE_UP_TO version: %w", err)
		}
	}
	return goose.UpToContext(ctx, stdDb, "sql/migrations", targetVersion)
}

// Init migrates the schema and seeds the palette. The web server calls it
// before accepting traffic.
func (db *DatabaseConnection) Init(ctx context.Context) error {
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := db.Seed(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}
