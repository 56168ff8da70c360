package domain

import (
	"github.com/nbd-wtf/go-nostr"
)

// Event kinds used on the relay wire. Replaceable kinds (paramaterized by
// the 'd' tag) carry convergent state; regular kinds are append-only.
const (
	KindMerchantMeta = 37300
	KindTerminalMeta = 37301
	KindProduct      = 37302
	KindCategory     = 37303
	KindSettings     = 37304

	KindTransaction   = 7375
	KindJoinRequest   = 7376
	KindJoinApproval  = 7377
	KindDeviceRevoke  = 7378
	KindTokenForward  = 7379
	KindTokenReceived = 7380
	KindEntityDelete  = 7381
)

// Tag names. 'm' scopes to a merchant, 't' names the origin terminal,
// 'p' addresses a recipient pubkey, 'd' keys a replaceable entity.
const (
	TagMerchant  = "m"
	TagTerminal  = "t"
	TagRecipient = "p"
	TagEntity    = "d"
)

// TagValue returns the first value of the named tag, or "".
func TagValue(ev *nostr.Event, name string) string {
	if tag := ev.Tags.GetFirst([]string{name}); tag != nil {
		return tag.Value()
	}
	return ""
}

// ReplaceableKinds lists the kinds resolved by the convergent rule.
func ReplaceableKinds() []int {
	return []int{KindProduct, KindCategory, KindSettings, KindMerchantMeta, KindTerminalMeta}
}

// SyncKinds lists every kind the sync engine subscribes to.
func SyncKinds() []int {
	return append(ReplaceableKinds(), KindTransaction, KindEntityDelete)
}

// Checkpoint marks the low-water mark below which relay history
// need not be re-scanned for a terminal.
type Checkpoint struct {
	TerminalID        string `json:"terminal_id"`
	LastSyncTimestamp int64  `json:"last_sync_timestamp"`
}
