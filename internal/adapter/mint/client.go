// Package mint is the HTTP edge to cashu mints: token serialization,
// spend-state checks, and proof swaps. Blind-signature math happens inside
// the mint; this client only moves proofs across the wire.
package mint

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/apperror"

	"github.com/rs/zerolog"
)

// tokenPrefix marks a serialized cashu token (V3, JSON body).
const tokenPrefix = "cashuA"

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client implements ports.MintClient against mint REST endpoints.
type Client struct {
	httpClient HTTPClient
	log        zerolog.Logger
}

// NewClient creates a mint client. Pass nil to use a default http.Client
// with a sane timeout.
func NewClient(httpClient HTTPClient, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{httpClient: httpClient, log: log}
}

// tokenV3 is the serialized token body.
type tokenV3 struct {
	Token []tokenV3Entry `json:"token"`
	Unit  string         `json:"unit,omitempty"`
	Memo  string         `json:"memo,omitempty"`
}

type tokenV3Entry struct {
	Mint   string         `json:"mint"`
	Proofs []domain.Proof `json:"proofs"`
}

// Encode serializes proofs into a transferable token string.
func (c *Client) Encode(mintURL string, proofs []domain.Proof, memo string) (string, error) {
	if len(proofs) == 0 {
		return "", fmt.Errorf("encoding token: no proofs")
	}
	body, err := json.Marshal(tokenV3{
		Token: []tokenV3Entry{{Mint: mintURL, Proofs: proofs}},
		Unit:  "sat",
		Memo:  memo,
	})
	if err != nil {
		return "", fmt.Errorf("encoding token: %w", err)
	}
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(body), nil
}

// Decode parses a token string. Multi-mint tokens are rejected: a payment
// is bound to exactly one mint.
func (c *Client) Decode(token string) (*domain.Token, error) {
	if !strings.HasPrefix(token, tokenPrefix) {
		return nil, fmt.Errorf("decoding token: missing %q prefix", tokenPrefix)
	}
	raw := strings.TrimPrefix(token, tokenPrefix)

	body, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		// Some wallets emit padded base64.
		body, err = base64.URLEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding token: %w", err)
		}
	}

	var parsed tokenV3
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding token: %w", err)
	}
	if len(parsed.Token) != 1 {
		return nil, fmt.Errorf("decoding token: expected one mint entry, got %d", len(parsed.Token))
	}
	entry := parsed.Token[0]
	if entry.Mint == "" || len(entry.Proofs) == 0 {
		return nil, fmt.Errorf("decoding token: empty mint or proof set")
	}

	return &domain.Token{
		MintURL: entry.Mint,
		Proofs:  entry.Proofs,
		Memo:    parsed.Memo,
	}, nil
}

type checkStateRequest struct {
	Secrets []string `json:"secrets"`
}

type checkStateResponse struct {
	Spent []string `json:"spent"`
}

// Validate asks the token's mint whether any proof is already spent. It
// does not redeem anything.
func (c *Client) Validate(ctx context.Context, token string) (*ports.TokenInfo, error) {
	decoded, err := c.Decode(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken(err)
	}

	secrets := make([]string, len(decoded.Proofs))
	for i, p := range decoded.Proofs {
		secrets[i] = p.Secret
	}

	var resp checkStateResponse
	if err := c.post(ctx, decoded.MintURL, "/v1/checkstate", checkStateRequest{Secrets: secrets}, &resp); err != nil {
		return nil, err
	}

	info := &ports.TokenInfo{
		Valid:   len(resp.Spent) == 0,
		Amount:  decoded.Amount(),
		MintURL: decoded.MintURL,
	}
	if !info.Valid {
		c.log.Warn().
			Str("mint_url", decoded.MintURL).
			Int("spent", len(resp.Spent)).
			Msg("token contains spent proofs")
	}
	return info, nil
}

type swapRequest struct {
	Proofs []domain.Proof `json:"proofs"`
}

type swapResponse struct {
	Proofs []domain.Proof `json:"proofs"`
}

// Swap redeems proofs for fresh ones owned by this wallet. After a
// successful swap the input proofs are void everywhere else.
func (c *Client) Swap(ctx context.Context, mintURL string, proofs []domain.Proof) ([]domain.Proof, error) {
	var resp swapResponse
	if err := c.post(ctx, mintURL, "/v1/swap", swapRequest{Proofs: proofs}, &resp); err != nil {
		return nil, err
	}
	if domain.SumProofs(resp.Proofs) != domain.SumProofs(proofs) {
		return nil, apperror.ErrRedemptionFailure(fmt.Errorf("mint returned %d sats for %d sats in",
			domain.SumProofs(resp.Proofs), domain.SumProofs(proofs)))
	}
	return resp.Proofs, nil
}

type splitRequest struct {
	Proofs     []domain.Proof `json:"proofs"`
	KeepAmount int64          `json:"keep_amount"`
}

type splitResponse struct {
	Keep []domain.Proof `json:"keep"`
	Send []domain.Proof `json:"send"`
}

// Split divides proofs into a keep pile of keepAmount and a send pile of
// the remainder.
func (c *Client) Split(ctx context.Context, mintURL string, proofs []domain.Proof, keepAmount int64) (keep, send []domain.Proof, err error) {
	total := domain.SumProofs(proofs)
	if keepAmount < 0 || keepAmount > total {
		return nil, nil, apperror.ErrInsufficientProofs(total, keepAmount)
	}

	var resp splitResponse
	if err := c.post(ctx, mintURL, "/v1/split", splitRequest{Proofs: proofs, KeepAmount: keepAmount}, &resp); err != nil {
		return nil, nil, err
	}
	if domain.SumProofs(resp.Keep) != keepAmount || domain.SumProofs(resp.Send) != total-keepAmount {
		return nil, nil, apperror.ErrRedemptionFailure(fmt.Errorf("mint split amounts do not add up"))
	}
	return resp.Keep, resp.Send, nil
}

// post sends a JSON request and decodes the response. Connectivity
// failures and mint-side 5xx map to retryable errors; a 4xx is the mint
// refusing the proofs, which no retry will fix.
func (c *Client) post(ctx context.Context, mintURL, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return apperror.InternalError(err)
	}

	url := strings.TrimRight(mintURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperror.InternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperror.ErrMintUnreachable(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apperror.ErrMintUnreachable(err)
	}

	switch {
	case resp.StatusCode >= 500:
		return apperror.ErrMintUnreachable(fmt.Errorf("mint %s: %s", url, resp.Status))
	case resp.StatusCode >= 400:
		return apperror.ErrRedemptionFailure(fmt.Errorf("mint %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body))))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperror.ErrRedemptionFailure(fmt.Errorf("mint %s: malformed response: %w", url, err))
	}
	return nil
}
