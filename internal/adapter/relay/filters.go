package relay

import (
	"cashu-pos/internal/core/domain"

	"github.com/nbd-wtf/go-nostr"
)

// Filters for the engine's subscriptions. Each concern gets its own filter
// in an explicit OR-list; filters with incompatible fields are never merged
// into one lossy object.

// SyncFilters matches entity and transaction events for a merchant since
// the checkpoint.
func SyncFilters(merchantID string, since int64) nostr.Filters {
	var sincePtr *nostr.Timestamp
	if since > 0 {
		ts := nostr.Timestamp(since)
		sincePtr = &ts
	}
	return nostr.Filters{
		{
			Kinds: domain.ReplaceableKinds(),
			Tags:  nostr.TagMap{domain.TagMerchant: []string{merchantID}},
			Since: sincePtr,
		},
		{
			Kinds: []int{domain.KindTransaction, domain.KindEntityDelete},
			Tags:  nostr.TagMap{domain.TagMerchant: []string{merchantID}},
			Since: sincePtr,
		},
	}
}

// TrustFilters matches the trust handshake: join requests and revocations
// scoped to the merchant, plus approvals addressed to this terminal.
func TrustFilters(merchantID, localPubkey string) nostr.Filters {
	return nostr.Filters{
		{
			Kinds: []int{domain.KindJoinRequest, domain.KindDeviceRevoke, domain.KindJoinApproval},
			Tags:  nostr.TagMap{domain.TagMerchant: []string{merchantID}},
		},
		{
			Kinds: []int{domain.KindJoinApproval, domain.KindDeviceRevoke},
			Tags:  nostr.TagMap{domain.TagRecipient: []string{localPubkey}},
		},
	}
}

// ForwardFilters matches encrypted forwards and receipts addressed to this
// terminal.
func ForwardFilters(localPubkey string) nostr.Filters {
	return nostr.Filters{
		{
			Kinds: []int{domain.KindTokenForward, domain.KindTokenReceived},
			Tags:  nostr.TagMap{domain.TagRecipient: []string{localPubkey}},
		},
	}
}
