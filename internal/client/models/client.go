package models

import "time"

// Client is a customer of the furniture business.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	IsOffline bool      `json:"isOffline"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (c *Client) EntityID() string      { return c.ID }
func (c *Client) SetEntityID(id string) { c.ID = id }
func (c *Client) EntityKind() Kind      { return KindClient }
func (c *Client) Pending() bool         { return c.IsOffline }
func (c *Client) MarkPending(p bool)    { c.IsOffline = p }

func (c *Client) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

// RemapRefs is a no-op: clients reference no other entity.
func (c *Client) RemapRefs(map[string]string) bool { return false }
