package checkout

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jugnuhq/jugnu-billing/internal/pricing"
)

// PostgresStore persists checkout sessions in PostgreSQL. The full quote is
// stored as a JSON snapshot so invoices can be reconstructed even if the
// catalog changes later.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed session store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	quote, err := json.Marshal(s.Quote)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO checkout_sessions (
			id, status, currency, amount_cents, quote,
			provider_id, provider_url, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, string(s.Status), s.Currency, s.AmountCents, quote,
		s.ProviderID, s.ProviderURL, s.CreatedAt,
	)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT id, status, currency, amount_cents, quote,
		       provider_id, provider_url, created_at
		FROM checkout_sessions WHERE id = $1`, id)

	s := &Session{}
	var (
		status string
		quote  []byte
	)
	err := row.Scan(&s.ID, &status, &s.Currency, &s.AmountCents, &quote,
		&s.ProviderID, &s.ProviderURL, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	s.Status = Status(status)
	var result pricing.Result
	if err := json.Unmarshal(quote, &result); err != nil {
		return nil, err
	}
	s.Quote = result
	return s, nil
}
