package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/sanitize"
	"github.com/2beens/maxpot/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StateRepo persists one JSON state document per user.
type StateRepo struct {
	db *pgxpool.Pool
}

func NewStateRepo(db *pgxpool.Pool) *StateRepo {
	return &StateRepo{
		db: db,
	}
}

// Load returns nil, nil when the user has no stored document yet.
func (r *StateRepo) Load(ctx context.Context, userID, todayKey string) (*entry.State, error) {
	document, err := r.LoadDocument(ctx, userID)
	if err != nil || document == nil {
		return nil, err
	}
	return sanitize.Decode(document, todayKey), nil
}

// LoadDocument returns the stored JSON as is, or nil, nil when there is none.
func (r *StateRepo) LoadDocument(ctx context.Context, userID string) ([]byte, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stateRepo.loadDocument")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var document []byte
	err = r.db.QueryRow(
		ctx,
		`SELECT document FROM user_state WHERE user_id = $1;`,
		userID,
	).Scan(&document)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("select state [%s]: %w", userID, err)
	}

	return document, nil
}

func (r *StateRepo) Save(ctx context.Context, userID string, state *entry.State, updatedAt time.Time) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stateRepo.save")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	document, err := json.Marshal(state.Document(updatedAt))
	if err != nil {
		return fmt.Errorf("marshal state [%s]: %w", userID, err)
	}

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO user_state (user_id, document, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at;`,
		userID, document, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert state [%s]: %w", userID, err)
	}

	return nil
}
