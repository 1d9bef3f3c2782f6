package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkhitrov/furnboard/internal/common"
)

// QueueItem is one pending mutation awaiting replay. Items are persisted in
// insertion order and drained FIFO: a later item may reference a temporary
// id that only an earlier item resolves.
type QueueItem struct {
	ID         int64           `json:"id"`
	Kind       Kind            `json:"entity"`
	Action     Action          `json:"action"`
	Payload    json.RawMessage `json:"data"`
	EnqueuedAt time.Time       `json:"timestamp"`
}

// NewQueueItem captures the entity as submitted into a queue item. The kind
// tag is taken from the record itself.
func NewQueueItem(action Action, rec Entity) (*QueueItem, error) {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownAction, action)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", rec.EntityKind(), err)
	}

	return &QueueItem{
		Kind:       rec.EntityKind(),
		Action:     action,
		Payload:    payload,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Decode restores the typed record from the item's tagged payload.
func (q *QueueItem) Decode() (Entity, error) {
	return DecodePayload(q.Kind, q.Payload)
}

// DecodePayload unmarshals raw into the record type selected by kind.
func DecodePayload(kind Kind, raw json.RawMessage) (Entity, error) {
	var rec Entity
	switch kind {
	case KindOrder:
		rec = &Order{}
	case KindStock:
		rec = &StockItem{}
	case KindPayment:
		rec = &Payment{}
	case KindClient:
		rec = &Client{}
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownEntityKind, kind)
	}

	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return rec, nil
}
