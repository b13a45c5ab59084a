package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func DefaultPostgresConfig(url string) PostgresConfig {
	return PostgresConfig{
		URL:             url,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Postgres stores pages and links in PostgreSQL. Local link uniqueness is
// enforced by a unique index on the url column.
type Postgres struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required")
	}
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	p := NewPostgres(db)
	if err := p.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return p, nil
}

// NewPostgres wraps an open handle without touching the schema.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS pages (
		id BIGSERIAL PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		status_code INTEGER,
		title TEXT,
		description TEXT,
		crawled_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS tags (
		page_id BIGINT PRIMARY KEY REFERENCES pages(id),
		keywords BYTEA NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS local_links (
		id BIGSERIAL PRIMARY KEY,
		source_id BIGINT REFERENCES pages(id),
		url TEXT UNIQUE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS external_links (
		id BIGSERIAL PRIMARY KEY,
		url TEXT UNIQUE NOT NULL
	)`,
}

func (p *Postgres) createTables(ctx context.Context) error {
	for _, query := range schema {
		if _, err := p.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

func (p *Postgres) SavePage(ctx context.Context, url string, statusCode int) (int64, error) {
	var id int64
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO pages (url, status_code)
		VALUES ($1, $2)
		ON CONFLICT (url) DO UPDATE SET
			status_code = EXCLUDED.status_code,
			crawled_at = CURRENT_TIMESTAMP
		RETURNING id`,
		escapeText(url), statusCode,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save page: %w", err)
	}
	return id, nil
}

func (p *Postgres) HasPage(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := p.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pages WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has page: %w", err)
	}
	return ok, nil
}

func (p *Postgres) SetTitle(ctx context.Context, pageID int64, title string) error {
	return p.updatePage(ctx, "set title", `UPDATE pages SET title = $2 WHERE id = $1`, pageID, escapeText(title))
}

func (p *Postgres) SetDescription(ctx context.Context, pageID int64, text string) error {
	return p.updatePage(ctx, "set description", `UPDATE pages SET description = $2 WHERE id = $1`, pageID, escapeText(text))
}

func (p *Postgres) updatePage(ctx context.Context, op, query string, pageID int64, value string) error {
	res, err := p.db.ExecContext(ctx, query, pageID, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: page %d: %w", op, pageID, ErrNotFound)
	}
	return nil
}

func (p *Postgres) SetTags(ctx context.Context, pageID int64, tags []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO tags (page_id, keywords)
		VALUES ($1, $2)
		ON CONFLICT (page_id) DO UPDATE SET keywords = EXCLUDED.keywords`,
		pageID, tags,
	)
	if err != nil {
		return fmt.Errorf("set tags: %w", err)
	}
	return nil
}

func (p *Postgres) InsertUniqueLocalLink(ctx context.Context, sourceID int64, url string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO local_links (source_id, url)
		VALUES ($1, $2)
		ON CONFLICT (url) DO NOTHING`,
		sourceID, url,
	)
	if err != nil {
		return fmt.Errorf("insert local link: %w", err)
	}
	return nil
}

func (p *Postgres) InsertExternalLink(ctx context.Context, url string) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO external_links (url)
		VALUES ($1)
		ON CONFLICT (url) DO NOTHING`,
		url,
	)
	if err != nil {
		return fmt.Errorf("insert external link: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
