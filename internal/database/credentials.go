// internal/database/credentials.go
package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAgentCredentialNotFound is returned when no credential row exists for an
// agent id.
var ErrAgentCredentialNotFound = errors.New("agent credentials not found")

// PgAgentCredentialStore persists agent API secret hashes. Only the Argon2id
// encoding is ever stored; the plaintext secret stays with the agent.
type PgAgentCredentialStore struct {
	Pool *pgxpool.Pool
}

// NewPgAgentCredentialStore returns a credential store over the given pool,
// defaulting to the package pool from ConnectDB.
func NewPgAgentCredentialStore(pool *pgxpool.Pool) *PgAgentCredentialStore {
	if pool == nil {
		pool = DB
	}
	return &PgAgentCredentialStore{Pool: pool}
}

// InsertAgentCredential creates a credential row for a new agent.
func (s *PgAgentCredentialStore) InsertAgentCredential(ctx context.Context, agentID uuid.UUID, secretHash string) error {
	q := `INSERT INTO agent_credentials (agent_id, secret_hash) VALUES ($1, $2)`
	return pgx.BeginTxFunc(ctx, s.Pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, agentID, secretHash)
		return err
	})
}

// GetAgentSecretHash fetches the stored hash for an agent.
func (s *PgAgentCredentialStore) GetAgentSecretHash(ctx context.Context, agentID uuid.UUID) (string, error) {
	var hash string
	err := s.Pool.QueryRow(ctx, `SELECT secret_hash FROM agent_credentials WHERE agent_id = $1`, agentID).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrAgentCredentialNotFound
	}
	if err != nil {
		return "", err
	}
	return hash, nil
}
