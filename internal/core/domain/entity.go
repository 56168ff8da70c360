package domain

import (
	"encoding/json"
	"time"
)

// EntityKind names a syncable domain object class.
type EntityKind string

const (
	EntityProduct  EntityKind = "product"
	EntityCategory EntityKind = "category"
	EntitySettings EntityKind = "settings"
)

// EventKind maps an entity kind to its replaceable relay event kind.
func (k EntityKind) EventKind() int {
	switch k {
	case EntityCategory:
		return KindCategory
	case EntitySettings:
		return KindSettings
	default:
		return KindProduct
	}
}

// EntityKindForEvent is the inverse of EventKind; ok is false for
// non-entity kinds.
func EntityKindForEvent(kind int) (EntityKind, bool) {
	switch kind {
	case KindProduct:
		return EntityProduct, true
	case KindCategory:
		return EntityCategory, true
	case KindSettings:
		return EntitySettings, true
	}
	return "", false
}

// SyncRecord is the convergent envelope every syncable entity travels in.
// Version strictly increases with each published local mutation.
type SyncRecord struct {
	ID        string          `json:"id"`
	Kind      EntityKind      `json:"kind"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	UpdatedBy string          `json:"updated_by"` // terminal id
	Deleted   bool            `json:"deleted"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Resolution is the outcome of comparing an inbound record against the
// local copy.
type Resolution int

const (
	// ResolutionAccept means the inbound record wins and replaces local state.
	ResolutionAccept Resolution = iota
	// ResolutionStale means the inbound record lost the version race.
	ResolutionStale
)

// Resolve applies the convergent last-writer-wins rule. A nil local copy
// accepts unconditionally; otherwise the higher version wins, and on a
// version tie the newer UpdatedAt wins. Equal or older is stale.
// Financial records never go through this rule; they are append-only.
func Resolve(local *SyncRecord, inbound *SyncRecord) Resolution {
	if local == nil {
		return ResolutionAccept
	}
	if inbound.Version > local.Version {
		return ResolutionAccept
	}
	if inbound.Version == local.Version && inbound.UpdatedAt.After(local.UpdatedAt) {
		return ResolutionAccept
	}
	return ResolutionStale
}
