package domain

import (
	"sort"

	"cashu-pos/pkg/apperror"
)

// Proof is a single unblinded ecash unit of a fixed denomination,
// redeemable at one mint.
type Proof struct {
	ID     string `json:"id"` // keyset id
	Amount int64  `json:"amount"`
	Secret string `json:"secret"`
	C      string `json:"C"` // mint signature
}

// Token is a decoded cashu token: a proof set bound to one mint.
type Token struct {
	MintURL string  `json:"mint_url"`
	Proofs  []Proof `json:"proofs"`
	Memo    string  `json:"memo,omitempty"`
}

// Amount sums the token's proofs.
func (t Token) Amount() int64 {
	return SumProofs(t.Proofs)
}

// SumProofs totals a proof set.
func SumProofs(proofs []Proof) int64 {
	var total int64
	for _, p := range proofs {
		total += p.Amount
	}
	return total
}

// ProofSelection is the result of picking proofs for a target amount.
// When Overshoot is zero the picked set sums exactly to the target and no
// cryptographic split is needed.
type ProofSelection struct {
	Proofs    []Proof
	Total     int64
	Overshoot int64
}

// SelectProofs greedily accumulates proofs in ascending denomination order
// until the running total reaches target, so the smallest denominations are
// spent first. It is a pure function: the input slice is not mutated, and on
// failure nothing is returned. Shared by refund, withdrawal and
// change-generation flows.
func SelectProofs(proofs []Proof, target int64) (*ProofSelection, error) {
	if target <= 0 {
		return &ProofSelection{}, nil
	}
	if SumProofs(proofs) < target {
		return nil, apperror.ErrInsufficientProofs(SumProofs(proofs), target)
	}

	sorted := make([]Proof, len(proofs))
	copy(sorted, proofs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Amount < sorted[j].Amount })

	var picked []Proof
	var total int64
	for _, p := range sorted {
		picked = append(picked, p)
		total += p.Amount
		if total >= target {
			break
		}
	}

	return &ProofSelection{
		Proofs:    picked,
		Total:     total,
		Overshoot: total - target,
	}, nil
}
