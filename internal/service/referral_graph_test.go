package service

import (
	"context"
	"errors"
	"testing"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports/mocks"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type referralTestDeps struct {
	svc  *ReferralGraphService
	repo *mocks.MockReferralRepository
}

func setupReferralGraph(t *testing.T, maxDepth int) *referralTestDeps {
	ctrl := gomock.NewController(t)
	d := &referralTestDeps{repo: mocks.NewMockReferralRepository(ctrl)}
	d.svc = NewReferralGraphService(d.repo, maxDepth, clockwork.NewFakeClockAt(testEpoch), zerolog.Nop())
	return d
}

// expectEdges makes GetReferrer answer from a child -> parent map.
func (d *referralTestDeps) expectEdges(edges map[int64]int64) {
	d.repo.EXPECT().GetReferrer(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, userID int64) (*int64, error) {
			parent, ok := edges[userID]
			if !ok {
				return nil, nil
			}
			return &parent, nil
		}).AnyTimes()
}

func TestReferralGraph_ResolveChain(t *testing.T) {
	d := setupReferralGraph(t, 20)
	d.expectEdges(map[int64]int64{1: 2, 2: 3, 3: 4})

	chain, err := d.svc.ResolveChain(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, chain)
}

func TestReferralGraph_ResolveChain_NoReferrer(t *testing.T) {
	d := setupReferralGraph(t, 20)
	d.expectEdges(map[int64]int64{})

	chain, err := d.svc.ResolveChain(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestReferralGraph_ResolveChain_TruncatedAtMaxDepth(t *testing.T) {
	d := setupReferralGraph(t, 3)
	edges := make(map[int64]int64)
	for i := int64(1); i < 50; i++ {
		edges[i] = i + 1
	}
	d.expectEdges(edges)

	chain, err := d.svc.ResolveChain(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, chain)
}

func TestReferralGraph_ResolveChain_DefaultDepthIsTwenty(t *testing.T) {
	d := setupReferralGraph(t, 0)
	edges := make(map[int64]int64)
	for i := int64(1); i < 50; i++ {
		edges[i] = i + 1
	}
	d.expectEdges(edges)

	chain, err := d.svc.ResolveChain(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, chain, domain.MaxReferralDepth)
}

func TestReferralGraph_ResolveChain_CycleTerminates(t *testing.T) {
	d := setupReferralGraph(t, 20)
	// 1 -> 2 -> 3 -> 2
	d.expectEdges(map[int64]int64{1: 2, 2: 3, 3: 2})

	chain, err := d.svc.ResolveChain(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, chain)
}

func TestReferralGraph_ResolveChain_CycleBackToStart(t *testing.T) {
	d := setupReferralGraph(t, 20)
	d.expectEdges(map[int64]int64{1: 2, 2: 1})

	chain, err := d.svc.ResolveChain(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, chain)
}

func TestReferralGraph_ResolveChain_StoreError(t *testing.T) {
	d := setupReferralGraph(t, 20)
	d.repo.EXPECT().GetReferrer(gomock.Any(), int64(1)).Return(nil, errors.New("conn reset"))

	_, err := d.svc.ResolveChain(context.Background(), 1)
	assertAppError(t, err, "STORE_001")
}

func TestReferralGraph_Link(t *testing.T) {
	d := setupReferralGraph(t, 20)
	d.expectEdges(map[int64]int64{2: 3})
	d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, edge *domain.ReferralEdge) (bool, error) {
			assert.Equal(t, int64(1), edge.UserID)
			assert.Equal(t, int64(2), edge.ReferrerID)
			assert.Equal(t, testEpoch, edge.CreatedAt)
			return true, nil
		})

	require.NoError(t, d.svc.Link(context.Background(), 1, 2))
}

func TestReferralGraph_Link_Rejections(t *testing.T) {
	t.Run("self referral", func(t *testing.T) {
		d := setupReferralGraph(t, 20)
		err := d.svc.Link(context.Background(), 5, 5)
		assertAppError(t, err, "VAL_006")
	})

	t.Run("would close a loop", func(t *testing.T) {
		d := setupReferralGraph(t, 20)
		// 2 -> 3 -> 1, linking 1 -> 2 closes 1 -> 2 -> 3 -> 1
		d.expectEdges(map[int64]int64{2: 3, 3: 1})
		err := d.svc.Link(context.Background(), 1, 2)
		assertAppError(t, err, "VAL_006")
	})

	t.Run("referrer already recorded", func(t *testing.T) {
		d := setupReferralGraph(t, 20)
		d.expectEdges(map[int64]int64{})
		d.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(false, nil)
		err := d.svc.Link(context.Background(), 1, 2)
		assertAppError(t, err, "CONC_001")
	})
}
