package loyalty

import (
	"context"
	"database/sql"
	"time"

	"github.com/jugnuhq/jugnu-billing/internal/idgen"
	"github.com/jugnuhq/jugnu-billing/internal/pagination"
)

// PostgresStore persists wallet data in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed wallet store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (p *PostgresStore) GetWallet(ctx context.Context, userID string) (*Wallet, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT user_id, balance, lifetime_earned, lifetime_redeemed, updated_at
		FROM wallets WHERE user_id = $1`, userID)

	w := &Wallet{}
	err := row.Scan(&w.UserID, &w.Balance, &w.LifetimeEarned, &w.LifetimeRedeemed, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return &Wallet{UserID: userID, UpdatedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (p *PostgresStore) Earn(ctx context.Context, userID string, points int64, reference, description string) error {
	if points <= 0 {
		return ErrInvalidPoints
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO wallets (user_id, balance, lifetime_earned, lifetime_redeemed, updated_at)
		VALUES ($1, $2, $2, 0, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			balance = wallets.balance + $2,
			lifetime_earned = wallets.lifetime_earned + $2,
			updated_at = NOW()`,
		userID, points,
	)
	if err != nil {
		return err
	}

	if err := insertEntry(ctx, tx, userID, "earn", points, reference, description); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *PostgresStore) Redeem(ctx context.Context, userID string, points int64, reference, description string) error {
	if points <= 0 {
		return ErrInvalidPoints
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Conditional decrement: the WHERE clause makes check-and-debit atomic,
	// so two concurrent redemptions can never take the balance negative.
	res, err := tx.ExecContext(ctx, `
		UPDATE wallets SET
			balance = balance - $2,
			lifetime_redeemed = lifetime_redeemed + $2,
			updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2`,
		userID, points,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientBalance
	}

	if err := insertEntry(ctx, tx, userID, "redeem", points, reference, description); err != nil {
		return err
	}
	return tx.Commit()
}

func (p *PostgresStore) History(ctx context.Context, userID string, cursor *pagination.Cursor, limit int) ([]*Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if cursor != nil {
		rows, err = p.db.QueryContext(ctx, `
			SELECT id, user_id, type, points, reference, description, created_at
			FROM wallet_entries
			WHERE user_id = $1 AND (created_at, id) < ($2, $3)
			ORDER BY created_at DESC, id DESC
			LIMIT $4`, userID, cursor.CreatedAt, cursor.ID, limit)
	} else {
		rows, err = p.db.QueryContext(ctx, `
			SELECT id, user_id, type, points, reference, description, created_at
			FROM wallet_entries
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, userID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []*Entry
	for rows.Next() {
		e := &Entry{}
		var reference, description sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Points, &reference, &description, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Reference = reference.String
		e.Description = description.String
		result = append(result, e)
	}
	return result, rows.Err()
}

func insertEntry(ctx context.Context, tx *sql.Tx, userID, entryType string, points int64, reference, description string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO wallet_entries (id, user_id, type, points, reference, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		idgen.WithPrefix("we_"), userID, entryType, points, nullString(reference), nullString(description),
	)
	return err
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
