// history/postgresql.go
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/wfunc/robotserver/models"
)

// PostgreSQL is a plain database/sql implementation of the journal, for
// deployments that prefer raw SQL over GORM.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL opens a connection and creates the journal table if missing.
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS command_log (
            id SERIAL PRIMARY KEY,
            command TEXT NOT NULL,
            outcome TEXT NOT NULL,
            x INT,
            y INT,
            facing TEXT,
            is_placed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            deleted_at TIMESTAMP
        )
    `)
	return err
}

func (s *PostgreSQL) Append(rec models.CommandRecord) error {
	_, err := s.db.Exec(`
        INSERT INTO command_log (command, outcome, x, y, facing, is_placed)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, rec.Command, rec.Outcome, rec.State.X, rec.State.Y, rec.State.Facing, rec.State.IsPlaced)
	return err
}

func (s *PostgreSQL) Recent(limit int) ([]models.CommandRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
        SELECT command, outcome, x, y, facing, is_placed, created_at
        FROM command_log
        WHERE deleted_at IS NULL
        ORDER BY id DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CommandRecord
	for rows.Next() {
		var rec models.CommandRecord
		if err := rows.Scan(
			&rec.Command,
			&rec.Outcome,
			&rec.State.X,
			&rec.State.Y,
			&rec.State.Facing,
			&rec.State.IsPlaced,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgreSQL) Close() error {
	return s.db.Close()
}
