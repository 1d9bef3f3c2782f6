package models

import "time"

// StockItem is a single inventory position (material or finished piece).
type StockItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	SKU            string    `json:"sku"`
	Quantity       int64     `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	IsOffline      bool      `json:"isOffline"`
	CreatedAt      time.Time `json:"createdAt,omitzero"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero"`
}

func (s *StockItem) EntityID() string      { return s.ID }
func (s *StockItem) SetEntityID(id string) { s.ID = id }
func (s *StockItem) EntityKind() Kind      { return KindStock }
func (s *StockItem) Pending() bool         { return s.IsOffline }
func (s *StockItem) MarkPending(p bool)    { s.IsOffline = p }

func (s *StockItem) Touch(now time.Time) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}

// RemapRefs is a no-op: stock items reference no other entity.
func (s *StockItem) RemapRefs(map[string]string) bool { return false }
