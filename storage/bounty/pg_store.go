package bounty

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"bountyhub-backend/core/bounty"
)

// PGStore persists bounty state in Postgres.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects and initializes the schema.
func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PGStore) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS bounties (
  id BIGINT PRIMARY KEY,
  issuer TEXT NOT NULL,
  arbiter TEXT NOT NULL DEFAULT '',
  deadline TIMESTAMPTZ NOT NULL,
  data TEXT NOT NULL DEFAULT '',
  fulfillment_amount_sats BIGINT NOT NULL,
  pays_tokens BOOLEAN NOT NULL DEFAULT FALSE,
  token_ref TEXT NOT NULL DEFAULT '',
  stage TEXT NOT NULL,
  balance_sats BIGINT NOT NULL DEFAULT 0,
  owed_amount_sats BIGINT NOT NULL DEFAULT 0,
  num_accepted INT NOT NULL DEFAULT 0,
  num_paid INT NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS fulfillments (
  bounty_id BIGINT NOT NULL REFERENCES bounties(id),
  id INT NOT NULL,
  fulfiller TEXT NOT NULL,
  data TEXT NOT NULL DEFAULT '',
  accepted BOOLEAN NOT NULL DEFAULT FALSE,
  paid BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (bounty_id, id)
);
CREATE INDEX IF NOT EXISTS idx_bounties_stage ON bounties(stage);
CREATE INDEX IF NOT EXISTS idx_bounties_issuer ON bounties(issuer);
`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// LoadAll returns all bounties ordered by id with their fulfillments in
// submission order.
func (s *PGStore) LoadAll(ctx context.Context) ([]*bounty.Bounty, error) {
	rows, err := s.pool.Query(ctx, `
SELECT id, issuer, arbiter, deadline, data, fulfillment_amount_sats,
       pays_tokens, token_ref, stage, balance_sats, owed_amount_sats,
       num_accepted, num_paid, created_at
FROM bounties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load bounties: %w", err)
	}
	defer rows.Close()

	var out []*bounty.Bounty
	next := 0
	for rows.Next() {
		var (
			id    int64
			b     bounty.Bounty
			stage string
		)
		if err := rows.Scan(&id, &b.Issuer, &b.Arbiter, &b.Deadline, &b.Data,
			&b.FulfillmentAmount, &b.PaysTokens, &b.TokenRef, &stage,
			&b.Balance, &b.OwedAmount, &b.NumAccepted, &b.NumPaid, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bounty: %w", err)
		}
		if int(id) != next {
			return nil, fmt.Errorf("bounty sequence has a hole at %d", next)
		}
		next++
		b.Stage = bounty.Stage(stage)
		if !b.Stage.Valid() {
			return nil, fmt.Errorf("bounty %d has unknown stage %q", id, stage)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frows, err := s.pool.Query(ctx, `
SELECT bounty_id, id, fulfiller, data, accepted, paid, created_at
FROM fulfillments ORDER BY bounty_id, id`)
	if err != nil {
		return nil, fmt.Errorf("load fulfillments: %w", err)
	}
	defer frows.Close()

	for frows.Next() {
		var (
			bountyID int64
			fid      int
			f        bounty.Fulfillment
		)
		if err := frows.Scan(&bountyID, &fid, &f.Fulfiller, &f.Data, &f.Accepted, &f.Paid, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fulfillment: %w", err)
		}
		if bountyID < 0 || int(bountyID) >= len(out) {
			return nil, fmt.Errorf("fulfillment references unknown bounty %d", bountyID)
		}
		b := out[bountyID]
		if fid != len(b.Fulfillments) {
			return nil, fmt.Errorf("bounty %d fulfillment sequence has a hole at %d", bountyID, len(b.Fulfillments))
		}
		b.Fulfillments = append(b.Fulfillments, &f)
	}
	return out, frows.Err()
}

// SaveBounty upserts one bounty row.
func (s *PGStore) SaveBounty(ctx context.Context, id int, b *bounty.Bounty) error {
	created := b.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO bounties (id, issuer, arbiter, deadline, data, fulfillment_amount_sats,
                      pays_tokens, token_ref, stage, balance_sats, owed_amount_sats,
                      num_accepted, num_paid, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
  issuer = EXCLUDED.issuer,
  arbiter = EXCLUDED.arbiter,
  deadline = EXCLUDED.deadline,
  data = EXCLUDED.data,
  fulfillment_amount_sats = EXCLUDED.fulfillment_amount_sats,
  pays_tokens = EXCLUDED.pays_tokens,
  token_ref = EXCLUDED.token_ref,
  stage = EXCLUDED.stage,
  balance_sats = EXCLUDED.balance_sats,
  owed_amount_sats = EXCLUDED.owed_amount_sats,
  num_accepted = EXCLUDED.num_accepted,
  num_paid = EXCLUDED.num_paid`,
		int64(id), b.Issuer, b.Arbiter, b.Deadline, b.Data, b.FulfillmentAmount,
		b.PaysTokens, b.TokenRef, string(b.Stage), b.Balance, b.OwedAmount,
		b.NumAccepted, b.NumPaid, created)
	if err != nil {
		return fmt.Errorf("save bounty %d: %w", id, err)
	}
	return nil
}

// SaveFulfillment upserts one fulfillment row.
func (s *PGStore) SaveFulfillment(ctx context.Context, bountyID, fulfillmentID int, f *bounty.Fulfillment) error {
	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
INSERT INTO fulfillments (bounty_id, id, fulfiller, data, accepted, paid, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (bounty_id, id) DO UPDATE SET
  data = EXCLUDED.data,
  accepted = EXCLUDED.accepted,
  paid = EXCLUDED.paid`,
		int64(bountyID), fulfillmentID, f.Fulfiller, f.Data, f.Accepted, f.Paid, created)
	if err != nil {
		return fmt.Errorf("save bounty %d fulfillment %d: %w", bountyID, fulfillmentID, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PGStore) Close() {
	s.pool.Close()
}
