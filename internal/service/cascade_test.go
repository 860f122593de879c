package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/core/ports/mocks"
	"farming-engine/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type cascadeTestDeps struct {
	cascade *CommissionCascade
	graph   *mocks.MockReferralGraph
	applier *mocks.MockCommissionApplier
	queue   *mocks.MockCommissionQueue
}

func setupCascade(t *testing.T, withQueue bool) *cascadeTestDeps {
	ctrl := gomock.NewController(t)
	d := &cascadeTestDeps{
		graph:   mocks.NewMockReferralGraph(ctrl),
		applier: mocks.NewMockCommissionApplier(ctrl),
		queue:   mocks.NewMockCommissionQueue(ctrl),
	}
	schedule, err := NewCommissionSchedule(dec("0.01"), decs("1", "0.19", "0.18"), 20)
	require.NoError(t, err)

	var queue ports.CommissionQueue
	if withQueue {
		queue = d.queue
	}
	d.cascade = NewCommissionCascade(d.graph, schedule, d.applier, queue, zerolog.Nop()).
		WithBackoff(func() retry.Backoff {
			return retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))
		})
	return d
}

func sampleReward(t *testing.T) *domain.Transaction {
	t.Helper()
	reward, err := domain.NewTransaction(10, domain.TransactionKindYieldReward, domain.CurrencyUNI, dec("10"), "yield:test", domain.TransactionMetadata{}, testEpoch)
	require.NoError(t, err)
	return reward
}

func TestCommissionCascade_WritesEveryLevel(t *testing.T) {
	d := setupCascade(t, true)
	reward := sampleReward(t)

	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11, 12, 13}, nil)

	var got []ports.CommissionEntry
	d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e ports.CommissionEntry) (bool, error) {
			got = append(got, e)
			return true, nil
		}).Times(3)

	res := d.cascade.Run(context.Background(), reward)

	assert.Equal(t, CascadeResult{Written: 3}, res)
	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, reward.ID, e.OriginTransactionID)
		assert.Equal(t, int64(10), e.RefereeID)
		assert.Equal(t, i+1, e.Level)
	}
	assertDecimal(t, "0.1", got[0].Amount)
	assertDecimal(t, "0.019", got[1].Amount)
	assertDecimal(t, "0.018", got[2].Amount)
}

func TestCommissionCascade_NoReferrer(t *testing.T) {
	d := setupCascade(t, true)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return(nil, nil)

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{}, res)
}

func TestCommissionCascade_DuplicateIsNotCounted(t *testing.T) {
	d := setupCascade(t, true)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11}, nil)
	d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(false, nil)

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{}, res)
}

func TestCommissionCascade_RetriesTransientFailure(t *testing.T) {
	d := setupCascade(t, true)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11}, nil)

	gomock.InOrder(
		d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(false, apperror.ErrStoreUnavailable(errors.New("timeout"))),
		d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(true, nil),
	)

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{Written: 1}, res)
}

func TestCommissionCascade_ExhaustedLevelIsQueued(t *testing.T) {
	d := setupCascade(t, true)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11, 12}, nil)

	storeErr := apperror.ErrStoreUnavailable(errors.New("timeout"))
	// Level 1 fails on every attempt (1 + 2 retries), level 2 succeeds.
	d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e ports.CommissionEntry) (bool, error) {
			if e.Level == 1 {
				return false, storeErr
			}
			return true, nil
		}).Times(4)
	d.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e ports.CommissionEntry) error {
			assert.Equal(t, 1, e.Level)
			assert.Equal(t, int64(11), e.AncestorID)
			return nil
		})

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{Written: 1, Failed: 1}, res)
}

func TestCommissionCascade_PermanentErrorIsNotRetried(t *testing.T) {
	d := setupCascade(t, false)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11}, nil)
	d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(false, apperror.ErrInvalidAmount()).Times(1)

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{Failed: 1}, res)
}

func TestCommissionCascade_QueueFailureIsLogged(t *testing.T) {
	d := setupCascade(t, true)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11}, nil)
	d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(false, errors.New("conn refused")).Times(3)
	d.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("queue down"))

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{Failed: 1}, res)
}

func TestCommissionCascade_ChainUnavailable(t *testing.T) {
	d := setupCascade(t, true)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).
		Return(nil, apperror.ErrStoreUnavailable(errors.New("down"))).Times(3)

	res := d.cascade.Run(context.Background(), sampleReward(t))
	assert.Equal(t, CascadeResult{Failed: 1}, res)
}

func TestCommissionCascade_SettleWritesOwedLevels(t *testing.T) {
	d := setupCascade(t, false)
	req := ports.NewCascadeRequest(sampleReward(t))

	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11, 12}, nil)
	gomock.InOrder(
		// Level 1 was written in line before the outage.
		d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(false, nil),
		d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e ports.CommissionEntry) (bool, error) {
				assert.Equal(t, 2, e.Level)
				assert.Equal(t, req.OriginTransactionID, e.OriginTransactionID)
				return true, nil
			}),
	)

	written, err := d.cascade.Settle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
}

func TestCommissionCascade_SettleReturnsChainError(t *testing.T) {
	d := setupCascade(t, false)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).
		Return(nil, apperror.ErrStoreUnavailable(errors.New("down"))).Times(1)

	written, err := d.cascade.Settle(context.Background(), ports.NewCascadeRequest(sampleReward(t)))
	require.Error(t, err)
	assert.True(t, apperror.IsTransient(err))
	assert.Zero(t, written)
}

func TestCommissionCascade_SettleStopsAtFailedLevel(t *testing.T) {
	d := setupCascade(t, false)
	d.graph.EXPECT().ResolveChain(gomock.Any(), int64(10)).Return([]int64{11, 12, 13}, nil)
	gomock.InOrder(
		d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(true, nil),
		d.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(false, errors.New("conn reset")),
	)

	written, err := d.cascade.Settle(context.Background(), ports.NewCascadeRequest(sampleReward(t)))
	require.Error(t, err)
	assert.Equal(t, 1, written)
}
