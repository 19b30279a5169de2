package entities

import (
	"strings"
	"time"
)

// BoxStatus is the server-side lifecycle of a box.
//
//	available -> held -> sold
//	held -> available (hold expired, payment canceled)
type BoxStatus string

const (
	BoxStatusAvailable BoxStatus = "available"
	BoxStatusHeld      BoxStatus = "held"
	BoxStatusSold      BoxStatus = "sold"
)

// BoxCount is the fixed size of the registry (A..Z).
const BoxCount = 26

// Box is one purchasable slot.
//
// Storage model:
//   - DynamoDB: PK id (string)
//   - Postgres: boxes.id primary key
//
// Invariants:
//   - held => HoldID and HoldExpiresAt are set
//   - sold => SoldAt and PaymentIntentID are set
type Box struct {
	ID              string     `json:"id"`
	Status          BoxStatus  `json:"status"`
	HoldID          string     `json:"hold_id,omitempty"`
	HoldExpiresAt   *time.Time `json:"hold_expires_at"`
	SoldAt          *time.Time `json:"sold_at"`
	PaymentIntentID string     `json:"payment_intent_id,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HoldExpired reports whether b is held but its hold ended at or before now.
func (b Box) HoldExpired(now time.Time) bool {
	return b.Status == BoxStatusHeld && (b.HoldExpiresAt == nil || !b.HoldExpiresAt.After(now))
}

// EffectiveStatus folds expired holds back into available.
func (b Box) EffectiveStatus(now time.Time) BoxStatus {
	if b.HoldExpired(now) {
		return BoxStatusAvailable
	}
	return b.Status
}

// BoxIDs returns the 26 registry ids in ascending order.
func BoxIDs() []string {
	ids := make([]string, 0, BoxCount)
	for c := 'A'; c <= 'Z'; c++ {
		ids = append(ids, string(c))
	}
	return ids
}

// IsBoxID reports whether s is a single uppercase letter A-Z.
func IsBoxID(s string) bool {
	return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
}

// NormalizeBoxIDs dedupes ids and keeps only valid box ids, preserving the
// order in which they first appear. No case folding: "a" is rejected.
func NormalizeBoxIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if IsBoxID(id) {
			out = append(out, id)
		}
	}
	return out
}

// JoinBoxIDs is the metadata encoding used on payment transactions.
func JoinBoxIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// SplitBoxIDs parses JoinBoxIDs output. Blank input yields nil.
func SplitBoxIDs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
