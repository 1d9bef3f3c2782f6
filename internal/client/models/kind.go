// Package models defines the mirrored entity records, the pending-mutation
// queue item, and the tagged payload union the sync engine replays.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkhitrov/furnboard/internal/common"
)

// Kind identifies a mirrored entity type.
type Kind string

const (
	KindOrder        Kind = "order"
	KindStock        Kind = "stock"
	KindPayment      Kind = "payment"
	KindClient       Kind = "client"
	KindNotification Kind = "notification"
)

// MutableKinds lists the kinds that participate in offline mutation and
// reconciliation, in the order reconciliation sweeps them. Clients come
// before orders and orders before payments so foreign keys resolve in
// dependency order when the lists are replayed into the mirror.
var MutableKinds = []Kind{KindClient, KindOrder, KindStock, KindPayment}

// Action is a queued mutation verb.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Entity is implemented by every mirrored record that can be mutated
// offline. RemapRefs rewrites foreign keys that match a resolved temporary
// id and reports whether anything changed; each type enumerates its own
// references so the remap step is statically exhaustive.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
	EntityKind() Kind
	Pending() bool
	MarkPending(pending bool)
	Touch(now time.Time)
	RemapRefs(ids map[string]string) bool
}

// NewTempID synthesizes a client-local identifier for an optimistic record.
func NewTempID() string {
	return common.TempIDPrefix + uuid.NewString()
}

// IsTempID reports whether id was synthesized locally and still awaits a
// server-assigned replacement.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, common.TempIDPrefix)
}
