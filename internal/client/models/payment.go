package models

import "time"

// Payment records money received against an order.
type Payment struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ClientID    string    `json:"clientId"`
	AmountCents int64     `json:"amountCents"`
	Method      string    `json:"method"`
	PaidAt      time.Time `json:"paidAt,omitzero"`
	IsOffline   bool      `json:"isOffline"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

func (p *Payment) EntityID() string      { return p.ID }
func (p *Payment) SetEntityID(id string) { p.ID = id }
func (p *Payment) EntityKind() Kind      { return KindPayment }
func (p *Payment) Pending() bool         { return p.IsOffline }
func (p *Payment) MarkPending(v bool)    { p.IsOffline = v }

func (p *Payment) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

func (p *Payment) RemapRefs(ids map[string]string) bool {
	changed := false
	if real, ok := ids[p.OrderID]; ok {
		p.OrderID = real
		changed = true
	}
	if real, ok := ids[p.ClientID]; ok {
		p.ClientID = real
		changed = true
	}
	return changed
}
