package service

import (
	"context"
	"fmt"
	"slices"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/metrics"
	"farming-engine/pkg/apperror"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// ReferralGraphService walks and extends the referral forest.
type ReferralGraphService struct {
	repo     ports.ReferralRepository
	maxDepth int
	clock    clockwork.Clock
	log      zerolog.Logger
}

// NewReferralGraphService creates a new referral graph service.
func NewReferralGraphService(repo ports.ReferralRepository, maxDepth int, clock clockwork.Clock, log zerolog.Logger) *ReferralGraphService {
	if maxDepth <= 0 || maxDepth > domain.MaxReferralDepth {
		maxDepth = domain.MaxReferralDepth
	}
	return &ReferralGraphService{
		repo:     repo,
		maxDepth: maxDepth,
		clock:    clock,
		log:      log,
	}
}

// ResolveChain returns the ancestors of userID, nearest first, at most
// maxDepth long. A cycle truncates the chain at the first repeated user and
// is reported, never followed.
func (s *ReferralGraphService) ResolveChain(ctx context.Context, userID int64) ([]int64, error) {
	visited := map[int64]struct{}{userID: {}}
	chain := make([]int64, 0, 4)

	current := userID
	for len(chain) < s.maxDepth {
		referrer, err := s.repo.GetReferrer(ctx, current)
		if err != nil {
			return nil, apperror.ErrStoreUnavailable(fmt.Errorf("get referrer of %d: %w", current, err))
		}
		if referrer == nil {
			break
		}
		if _, seen := visited[*referrer]; seen {
			s.log.Warn().
				Int64("user_id", userID).
				Int64("repeated_user_id", *referrer).
				Ints64("chain", chain).
				Msg("Referral cycle detected, chain truncated")
			metrics.IntegrityWarningsTotal.WithLabelValues("referral_cycle").Inc()
			break
		}
		visited[*referrer] = struct{}{}
		chain = append(chain, *referrer)
		current = *referrer
	}

	return chain, nil
}

// Link records referrerID as the referrer of userID. A user keeps the first
// referrer ever recorded; links that would close a loop are rejected.
func (s *ReferralGraphService) Link(ctx context.Context, userID, referrerID int64) error {
	edge, err := domain.NewReferralEdge(userID, referrerID, s.clock.Now().UTC())
	if err != nil {
		return err
	}

	ancestors, err := s.ResolveChain(ctx, referrerID)
	if err != nil {
		return err
	}
	if slices.Contains(ancestors, userID) {
		return apperror.Validation("referral would create a cycle")
	}

	created, err := s.repo.Create(ctx, edge)
	if err != nil {
		return apperror.ErrStoreUnavailable(fmt.Errorf("create referral edge: %w", err))
	}
	if !created {
		return apperror.ErrConcurrencyConflict("referrer already recorded")
	}

	s.log.Info().
		Int64("user_id", userID).
		Int64("referrer_id", referrerID).
		Msg("Referral linked")
	return nil
}
