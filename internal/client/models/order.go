package models

import "time"

// Order is a furniture order placed by a client.
type Order struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	TotalCents  int64     `json:"totalCents"`
	DueDate     time.Time `json:"dueDate,omitzero"`
	IsOffline   bool      `json:"isOffline"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

func (o *Order) EntityID() string      { return o.ID }
func (o *Order) SetEntityID(id string) { o.ID = id }
func (o *Order) EntityKind() Kind      { return KindOrder }
func (o *Order) Pending() bool         { return o.IsOffline }
func (o *Order) MarkPending(p bool)    { o.IsOffline = p }

func (o *Order) Touch(now time.Time) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

func (o *Order) RemapRefs(ids map[string]string) bool {
	if real, ok := ids[o.ClientID]; ok {
		o.ClientID = real
		return true
	}
	return false
}
