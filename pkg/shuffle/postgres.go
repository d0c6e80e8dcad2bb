package shuffle

import (
	"context"
	"database/sql"
	"time"
)

// PostgresStore archives commitments in the card_orders table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a Store backed by the supplied database
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Save stores a record
func (p *PostgresStore) Save(ctx context.Context, record *Record) error {
	const query = `
INSERT INTO card_orders (game_id, table_uuid, hash, seed, card_order, created_at, revealed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.ExecContext(ctx, query, record.GameID, record.TableUUID, record.Hash,
		record.Seed, record.CardOrder, record.CreatedAt, record.RevealedAt)
	return err
}

// MarkRevealed sets the reveal time on a stored record
func (p *PostgresStore) MarkRevealed(ctx context.Context, gameID string, revealedAt time.Time) error {
	const query = `UPDATE card_orders SET revealed_at = $1 WHERE game_id = $2`

	result, err := p.db.ExecContext(ctx, query, revealedAt, gameID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGameNotFound
	}

	return nil
}

// Get returns the record for a game ID
func (p *PostgresStore) Get(ctx context.Context, gameID string) (*Record, error) {
	const query = `
SELECT game_id, table_uuid, hash, seed, card_order, created_at, revealed_at
FROM card_orders
WHERE game_id = $1`

	row := p.db.QueryRowContext(ctx, query, gameID)
	record, err := recordByRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrGameNotFound
	}

	return record, err
}

// Latest returns up to count records, newest first
func (p *PostgresStore) Latest(ctx context.Context, count int) ([]*Record, error) {
	const query = `
SELECT game_id, table_uuid, hash, seed, card_order, created_at, revealed_at
FROM card_orders
ORDER BY created_at DESC
LIMIT $1`

	rows, err := p.db.QueryContext(ctx, query, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return recordsByRows(rows)
}

// Revealed returns every revealed record, oldest first
func (p *PostgresStore) Revealed(ctx context.Context) ([]*Record, error) {
	const query = `
SELECT game_id, table_uuid, hash, seed, card_order, created_at, revealed_at
FROM card_orders
WHERE revealed_at IS NOT NULL
ORDER BY created_at`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return recordsByRows(rows)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func recordByRow(row scanner) (*Record, error) {
	var record Record
	var revealedAt sql.NullTime
	if err := row.Scan(&record.GameID, &record.TableUUID, &record.Hash, &record.Seed,
		&record.CardOrder, &record.CreatedAt, &revealedAt); err != nil {
		return nil, err
	}

	if revealedAt.Valid {
		record.RevealedAt = &revealedAt.Time
	}

	return &record, nil
}

func recordsByRows(rows *sql.Rows) ([]*Record, error) {
	records := make([]*Record, 0)
	for rows.Next() {
		record, err := recordByRow(rows)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
