package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lunchtable/ltcg-service/internal/lobby"
	"github.com/lunchtable/ltcg-service/internal/models"
)

// PgLobbyStore implements lobby.Store over Postgres. Writes run inside
// pgx transactions so a create/join/cancel either fully applies or not at all.
type PgLobbyStore struct {
	Pool *pgxpool.Pool
}

// NewPgLobbyStore returns a lobby store over the given pool, defaulting to the
// package pool from ConnectDB.
func NewPgLobbyStore(pool *pgxpool.Pool) *PgLobbyStore {
	if pool == nil {
		pool = DB
	}
	return &PgLobbyStore{Pool: pool}
}

const lobbyColumns = `match_id, host_id, away_id, visibility, join_code, status, created_at, activated_at`

// InsertLobby creates a new pvp lobby row. The schema carries a partial unique
// index on (host_id) WHERE status = 'waiting', so a host racing two creates
// gets exactly one waiting lobby regardless of interleaving.
func (s *PgLobbyStore) InsertLobby(ctx context.Context, l *models.PvpLobby) error {
	q := `
	INSERT INTO pvp_lobbies (` + lobbyColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	return pgx.BeginTxFunc(ctx, s.Pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q,
			l.MatchID,
			l.HostID,
			l.AwayID,
			l.Visibility,
			l.JoinCode,
			l.Status,
			l.CreatedAt,
			l.ActivatedAt,
		)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return lobby.ErrDuplicateWaitingLobby
		}
		return err
	})
}

func scanLobby(row pgx.Row) (*models.PvpLobby, error) {
	var l models.PvpLobby
	err := row.Scan(
		&l.MatchID,
		&l.HostID,
		&l.AwayID,
		&l.Visibility,
		&l.JoinCode,
		&l.Status,
		&l.CreatedAt,
		&l.ActivatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lobby.ErrLobbyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// GetByMatchID fetches a lobby by its match id.
func (s *PgLobbyStore) GetByMatchID(ctx context.Context, matchID string) (*models.PvpLobby, error) {
	q := `SELECT ` + lobbyColumns + ` FROM pvp_lobbies WHERE match_id = $1`
	return scanLobby(s.Pool.QueryRow(ctx, q, matchID))
}

// GetByJoinCode fetches a private lobby by its join code.
func (s *PgLobbyStore) GetByJoinCode(ctx context.Context, code string) (*models.PvpLobby, error) {
	q := `SELECT ` + lobbyColumns + ` FROM pvp_lobbies WHERE join_code = $1`
	return scanLobby(s.Pool.QueryRow(ctx, q, code))
}

// GetWaitingByHost fetches the host's waiting lobby, if any.
func (s *PgLobbyStore) GetWaitingByHost(ctx context.Context, hostID uuid.UUID) (*models.PvpLobby, error) {
	q := `SELECT ` + lobbyColumns + ` FROM pvp_lobbies WHERE host_id = $1 AND status = $2 LIMIT 1`
	return scanLobby(s.Pool.QueryRow(ctx, q, hostID, models.LobbyWaiting))
}

// UpdateLobby persists a lifecycle transition, conditional on the row still
// being in the expected status. Zero rows updated means another transition
// won the race (or the row never existed).
func (s *PgLobbyStore) UpdateLobby(ctx context.Context, l *models.PvpLobby, expect models.LobbyStatus) error {
	q := `
	UPDATE pvp_lobbies
	SET away_id = $2, status = $3, activated_at = $4
	WHERE match_id = $1 AND status = $5
	`
	return pgx.BeginTxFunc(ctx, s.Pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q, l.MatchID, l.AwayID, l.Status, l.ActivatedAt, expect)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var status models.LobbyStatus
			err := tx.QueryRow(ctx, `SELECT status FROM pvp_lobbies WHERE match_id = $1`, l.MatchID).Scan(&status)
			if errors.Is(err, pgx.ErrNoRows) {
				return lobby.ErrLobbyNotFound
			}
			if err != nil {
				return err
			}
			return models.ErrLobbyNotWaiting
		}
		return nil
	})
}

// ListByStatus returns all lobbies in any of the given statuses.
func (s *PgLobbyStore) ListByStatus(ctx context.Context, statuses ...models.LobbyStatus) ([]models.PvpLobby, error) {
	q := `SELECT ` + lobbyColumns + ` FROM pvp_lobbies WHERE status = ANY($1)`
	raw := make([]string, len(statuses))
	for i, st := range statuses {
		raw[i] = string(st)
	}

	rows, err := s.Pool.Query(ctx, q, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lobbies []models.PvpLobby
	for rows.Next() {
		var l models.PvpLobby
		err := rows.Scan(
			&l.MatchID,
			&l.HostID,
			&l.AwayID,
			&l.Visibility,
			&l.JoinCode,
			&l.Status,
			&l.CreatedAt,
			&l.ActivatedAt,
		)
		if err != nil {
			return nil, err
		}
		lobbies = append(lobbies, l)
	}
	return lobbies, rows.Err()
}
