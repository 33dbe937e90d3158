package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/roksva123/go-meetsync-backend/internal/model"
)

type DBConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

type PostgresRepo struct {
	DB *sql.DB
}

func NewPostgresRepoFromConfig(cfg *DBConfig) (*PostgresRepo, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// ping
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &PostgresRepo{DB: db}, nil
}

func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
		`CREATE TABLE IF NOT EXISTS admins (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            username VARCHAR(100) UNIQUE NOT NULL,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ DEFAULT now()
        );`,
		`CREATE TABLE IF NOT EXISTS sync_history (
            id BIGSERIAL PRIMARY KEY,
            sync_time TIMESTAMPTZ DEFAULT now(),
            sync_type TEXT NOT NULL,
            status TEXT NOT NULL,
            duration_ms BIGINT DEFAULT 0,
            details JSONB
        );`,
	}
	for _, q := range queries {
		if _, err := r.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepo) UpsertAdmin(ctx context.Context, username, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO admins (username, password_hash)
        VALUES ($1, $2)
        ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
    `, username, passwordHash)
	return err
}

func (r *PostgresRepo) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
         FROM admins WHERE username = $1 LIMIT 1`, username)

	var a model.Admin
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateSyncHistory writes one audit row for a reconciliation pass.
func (r *PostgresRepo) CreateSyncHistory(ctx context.Context, syncType, status string, durationMs int64, details json.RawMessage) error {
	_, err := r.DB.ExecContext(ctx, `
        INSERT INTO sync_history (sync_type, status, duration_ms, details)
        VALUES ($1, $2, $3, $4)
    `, syncType, status, durationMs, details)
	return err
}

func (r *PostgresRepo) GetSyncHistory(ctx context.Context, limit int) ([]model.SyncHistory, error) {
	rows, err := r.DB.QueryContext(ctx, `
        SELECT id, sync_time, sync_type, status, duration_ms, details
        FROM sync_history
        ORDER BY sync_time DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.SyncHistory{}
	for rows.Next() {
		var h model.SyncHistory
		var details sql.NullString
		if err := rows.Scan(&h.ID, &h.SyncTime, &h.SyncType, &h.Status, &h.DurationMs, &details); err != nil {
			return nil, err
		}
		if details.Valid {
			h.Details = json.RawMessage(details.String)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
