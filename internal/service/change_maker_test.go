package service

import (
	"context"
	"errors"
	"testing"

	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports/mocks"
	"cashu-pos/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type changeMakerTestDeps struct {
	svc  *ChangeMakerImpl
	mint *mocks.MockMintClient
	ctrl *gomock.Controller
}

func setupChangeMaker(t *testing.T) *changeMakerTestDeps {
	ctrl := gomock.NewController(t)
	d := &changeMakerTestDeps{
		mint: mocks.NewMockMintClient(ctrl),
		ctrl: ctrl,
	}
	d.svc = NewChangeMaker(d.mint, zerolog.Nop())
	return d
}

func proofSet(amounts ...int64) []domain.Proof {
	proofs := make([]domain.Proof, len(amounts))
	for i, a := range amounts {
		proofs[i] = domain.Proof{ID: "keyset-1", Amount: a, Secret: string(rune('a' + i))}
	}
	return proofs
}

func TestChangeMaker_ExactPick_NoSplit(t *testing.T) {
	d := setupChangeMaker(t)
	defer d.ctrl.Finish()

	// 1+2+4 = 7 exactly; the mint must not be contacted.
	send, keep, err := d.svc.SelectForAmount(context.Background(), "https://mint.test", proofSet(1, 2, 4, 8), 7)

	require.NoError(t, err)
	assert.Empty(t, keep)
	assert.Equal(t, int64(7), domain.SumProofs(send))
}

func TestChangeMaker_Overshoot_SplitsAtMint(t *testing.T) {
	d := setupChangeMaker(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	available := proofSet(1, 2, 4, 8)

	// Greedy pick for 5 takes 1+2+4=7, overshoot 2.
	d.mint.EXPECT().
		Split(ctx, "https://mint.test", gomock.Any(), int64(2)).
		DoAndReturn(func(_ context.Context, _ string, picked []domain.Proof, keepAmount int64) ([]domain.Proof, []domain.Proof, error) {
			assert.Equal(t, int64(7), domain.SumProofs(picked))
			return proofSet(2), proofSet(1, 4), nil
		})

	send, keep, err := d.svc.SelectForAmount(ctx, "https://mint.test", available, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(5), domain.SumProofs(send))
	assert.Equal(t, int64(2), domain.SumProofs(keep))
}

func TestChangeMaker_Insufficient(t *testing.T) {
	d := setupChangeMaker(t)
	defer d.ctrl.Finish()

	_, _, err := d.svc.SelectForAmount(context.Background(), "https://mint.test", proofSet(1, 2), 10)

	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PROOF_001", appErr.Code)
}

func TestChangeMaker_SplitFailure(t *testing.T) {
	d := setupChangeMaker(t)
	defer d.ctrl.Finish()

	d.mint.EXPECT().
		Split(gomock.Any(), "https://mint.test", gomock.Any(), int64(2)).
		Return(nil, nil, errors.New("mint offline"))

	_, _, err := d.svc.SelectForAmount(context.Background(), "https://mint.test", proofSet(1, 2, 4), 5)
	assert.Error(t, err)
}
