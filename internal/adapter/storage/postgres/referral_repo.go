package postgres

import (
	"context"
	"errors"
	"fmt"

	"farming-engine/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ReferralRepo implements ports.ReferralRepository.
type ReferralRepo struct {
	pool Pool
}

// NewReferralRepo creates a new ReferralRepo.
func NewReferralRepo(pool Pool) *ReferralRepo {
	return &ReferralRepo{pool: pool}
}

// GetReferrer returns the direct referrer of userID, or nil.
func (r *ReferralRepo) GetReferrer(ctx context.Context, userID int64) (*int64, error) {
	var referrerID int64
	err := r.pool.QueryRow(ctx, `SELECT referrer_id FROM referral_edges WHERE user_id = $1`, userID).Scan(&referrerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get referrer: %w", err)
	}
	return &referrerID, nil
}

// Create stores an edge unless the user already has one. Edges are never
// rewritten.
func (r *ReferralRepo) Create(ctx context.Context, edge *domain.ReferralEdge) (bool, error) {
	query := `INSERT INTO referral_edges (user_id, referrer_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, edge.UserID, edge.ReferrerID, edge.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("create referral edge: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
