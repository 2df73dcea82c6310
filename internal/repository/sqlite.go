package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mpreston/teamsync/internal/models"
)

// Repository provides document access backed by SQLite. Each team's state
// is one JSON document in one row, mirroring the remote row-store earlier
// deployments used: the schema deliberately knows nothing about sessions
// or votes.
type Repository struct {
	db *sql.DB
}

// New creates a new Repository at the given database path.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewWithDB creates a Repository around an existing database handle
// without running migrations (for tests that drive the handle directly).
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS team_state (
			team_code TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// GetDocument reads one team's document by code.
func (r *Repository) GetDocument(ctx context.Context, teamCode string) (*models.State, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT state FROM team_state WHERE team_code = ?`, teamCode,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get document %s: %w", teamCode, err)
	}

	var state models.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, false, fmt.Errorf("decode document %s: %w", teamCode, err)
	}
	return &state, true, nil
}

// UpsertDocument writes one team's document by code.
func (r *Repository) UpsertDocument(ctx context.Context, teamCode string, state *models.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", teamCode, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO team_state (team_code, state) VALUES (?, ?)
		 ON CONFLICT(team_code) DO UPDATE SET
			state = excluded.state,
			updated_at = CURRENT_TIMESTAMP`,
		teamCode, string(raw),
	)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", teamCode, err)
	}
	return nil
}
