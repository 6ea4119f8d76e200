package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlbuilder "github.com/huandu/go-sqlbuilder"
	"github.com/lib/pq"

	"rental-browser/config"
	"rental-browser/models"
	"rental-browser/utils"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	listingsTable = "listings"
	batchSize     = 50
)

var listingColumns = []string{
	"position", "listing_id", "title", "district", "price", "beds", "size", "address", "tags", "gaps",
}

// PostgresStore mirrors a normalized collection into PostgreSQL and reads it back.
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore opens a connection, waits for the server to answer, and
// runs the embedded schema migrations.
func NewPostgresStore(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      logger,
	}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	if err := runMigrations(cfg.MigrateURL()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	logger.Info("[postgres] Connected to %s:%s/%s", cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	return &PostgresStore{db: db, logger: logger}, nil
}

func runMigrations(url string) error {
	d, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", d, url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Write replaces the stored collection with listings in a single transaction.
func (ps *PostgresStore) Write(ctx context.Context, listings []models.Listing) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	del := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	query, args := del.DeleteFrom(listingsTable).Build()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for start := 0; start < len(listings); start += batchSize {
		end := min(start+batchSize, len(listings))
		query, args := insertQuery(listings[start:end], start)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	ps.logger.Info("[postgres] Stored %d listings", len(listings))
	return nil
}

// insertQuery builds one multi-row insert. offset is the position of batch[0]
// in the full collection.
func insertQuery(batch []models.Listing, offset int) (string, []interface{}) {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(listingsTable).Cols(listingColumns...)
	for i, l := range batch {
		ib.Values(offset+i, l.ID, l.Title, l.District, l.Price, l.Beds, l.Size, l.Address,
			pq.Array(l.Tags), int(l.Gaps))
	}
	return ib.Build()
}

// FetchAll returns the stored collection in its original order.
func (ps *PostgresStore) FetchAll(ctx context.Context) ([]models.Listing, error) {
	query, args := selectQuery()
	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		var (
			l        models.Listing
			position int
			gaps     int
			tags     []string
		)
		if err := rows.Scan(&position, &l.ID, &l.Title, &l.District, &l.Price, &l.Beds,
			&l.Size, &l.Address, pq.Array(&tags), &gaps); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if tags == nil {
			tags = []string{}
		}
		l.Tags = tags
		l.Gaps = models.Gap(gaps)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func selectQuery() (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(listingColumns...).From(listingsTable).OrderBy("position").Asc()
	return sb.Build()
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

var _ ListingWriter = (*PostgresStore)(nil)
