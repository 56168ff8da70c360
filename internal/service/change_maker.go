package service

import (
	"context"

	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"

	"github.com/rs/zerolog"
)

// ChangeMakerImpl implements ports.ChangeMaker on top of the proof selector
// and the mint's split operation.
type ChangeMakerImpl struct {
	mint ports.MintClient
	log  zerolog.Logger
}

// NewChangeMaker creates a new ChangeMakerImpl.
func NewChangeMaker(mint ports.MintClient, log zerolog.Logger) *ChangeMakerImpl {
	return &ChangeMakerImpl{mint: mint, log: log}
}

// SelectForAmount picks proofs summing to at least target and, when the
// greedy pick overshoots, asks the mint to split the picked set into an
// exact send pile and a change pile the wallet keeps. An exact pick skips
// the mint round-trip entirely.
func (c *ChangeMakerImpl) SelectForAmount(ctx context.Context, mintURL string, available []domain.Proof, target int64) (send, keep []domain.Proof, err error) {
	sel, err := domain.SelectProofs(available, target)
	if err != nil {
		return nil, nil, err
	}

	if sel.Overshoot == 0 {
		return sel.Proofs, nil, nil
	}

	keep, send, err = c.mint.Split(ctx, mintURL, sel.Proofs, sel.Overshoot)
	if err != nil {
		c.log.Error().Err(err).
			Str("mint_url", mintURL).
			Int64("target", target).
			Int64("overshoot", sel.Overshoot).
			Msg("mint split failed")
		return nil, nil, err
	}

	c.log.Debug().
		Int64("target", target).
		Int64("picked", sel.Total).
		Int64("change", sel.Overshoot).
		Msg("made change at mint")
	return send, keep, nil
}
