package mint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cashu-pos/internal/core/domain"
	"cashu-pos/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProofs() []domain.Proof {
	return []domain.Proof{
		{ID: "keyset-1", Amount: 8, Secret: "s8", C: "c8"},
		{ID: "keyset-1", Amount: 2, Secret: "s2", C: "c2"},
	}
}

func TestClient_EncodeDecode(t *testing.T) {
	c := NewClient(nil, zerolog.Nop())

	token, err := c.Encode("https://mint.test", testProofs(), "two coffees")
	require.NoError(t, err)
	assert.True(t, len(token) > len("cashuA"))
	assert.Equal(t, "cashuA", token[:6])

	decoded, err := c.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "https://mint.test", decoded.MintURL)
	assert.Equal(t, "two coffees", decoded.Memo)
	assert.Equal(t, int64(10), decoded.Amount())
	assert.Equal(t, testProofs(), decoded.Proofs)
}

func TestClient_DecodeRejectsGarbage(t *testing.T) {
	c := NewClient(nil, zerolog.Nop())

	cases := []string{
		"",
		"notatoken",
		"cashuA",
		"cashuA%%%",
		"cashuAeyJ0b2tlbiI6W119", // valid base64, empty token list
	}
	for _, tc := range cases {
		_, err := c.Decode(tc)
		assert.Error(t, err, "input %q", tc)
	}
}

func TestClient_EncodeEmptyProofs(t *testing.T) {
	c := NewClient(nil, zerolog.Nop())
	_, err := c.Encode("https://mint.test", nil, "")
	assert.Error(t, err)
}

func TestClient_Validate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkstate", r.URL.Path)
		var req checkStateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.ElementsMatch(t, []string{"s8", "s2"}, req.Secrets)
		json.NewEncoder(w).Encode(checkStateResponse{})
	}))
	defer srv.Close()

	c := NewClient(nil, zerolog.Nop())
	token, err := c.Encode(srv.URL, testProofs(), "")
	require.NoError(t, err)

	info, err := c.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, info.Valid)
	assert.Equal(t, int64(10), info.Amount)
	assert.Equal(t, srv.URL, info.MintURL)
}

func TestClient_ValidateSpentProofs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(checkStateResponse{Spent: []string{"s8"}})
	}))
	defer srv.Close()

	c := NewClient(nil, zerolog.Nop())
	token, err := c.Encode(srv.URL, testProofs(), "")
	require.NoError(t, err)

	info, err := c.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, info.Valid)
}

func TestClient_Swap(t *testing.T) {
	fresh := []domain.Proof{{ID: "keyset-1", Amount: 10, Secret: "s10", C: "c10"}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/swap", r.URL.Path)
		json.NewEncoder(w).Encode(swapResponse{Proofs: fresh})
	}))
	defer srv.Close()

	c := NewClient(nil, zerolog.Nop())
	out, err := c.Swap(context.Background(), srv.URL, testProofs())
	require.NoError(t, err)
	assert.Equal(t, fresh, out)
}

func TestClient_SwapAmountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(swapResponse{Proofs: []domain.Proof{{Amount: 9}}})
	}))
	defer srv.Close()

	c := NewClient(nil, zerolog.Nop())
	_, err := c.Swap(context.Background(), srv.URL, testProofs())
	require.Error(t, err)
	assert.False(t, apperror.IsRetryable(err))
}

func TestClient_Split(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/split", r.URL.Path)
		var req splitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(2), req.KeepAmount)
		json.NewEncoder(w).Encode(splitResponse{
			Keep: []domain.Proof{{Amount: 2, Secret: "k2"}},
			Send: []domain.Proof{{Amount: 8, Secret: "n8"}},
		})
	}))
	defer srv.Close()

	c := NewClient(nil, zerolog.Nop())
	keep, send, err := c.Split(context.Background(), srv.URL, testProofs(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), domain.SumProofs(keep))
	assert.Equal(t, int64(8), domain.SumProofs(send))
}

func TestClient_SplitBadKeepAmount(t *testing.T) {
	c := NewClient(nil, zerolog.Nop())
	_, _, err := c.Split(context.Background(), "https://mint.test", testProofs(), 11)
	assert.Error(t, err)
}

func TestClient_ErrorMapping(t *testing.T) {
	t.Run("unreachable is retryable", func(t *testing.T) {
		c := NewClient(&http.Client{}, zerolog.Nop())
		_, err := c.Swap(context.Background(), "http://127.0.0.1:1", testProofs())
		require.Error(t, err)
		assert.True(t, apperror.IsRetryable(err))
	})

	t.Run("5xx is retryable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := NewClient(nil, zerolog.Nop())
		_, err := c.Swap(context.Background(), srv.URL, testProofs())
		require.Error(t, err)
		assert.True(t, apperror.IsRetryable(err))
	})

	t.Run("4xx is permanent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "proofs already spent", http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewClient(nil, zerolog.Nop())
		_, err := c.Swap(context.Background(), srv.URL, testProofs())
		require.Error(t, err)
		assert.False(t, apperror.IsRetryable(err))

		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "MINT_001", appErr.Code)
	})
}
