package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// Collection provides the typed CRUD surface for one backend collection
// endpoint.
type Collection[T models.Entity] struct {
	c    *Client
	path string
}

func NewCollection[T models.Entity](c *Client, path string) *Collection[T] {
	return &Collection[T]{c: c, path: path}
}

// List fetches the full collection using the large-page-size convention.
func (col *Collection[T]) List(ctx context.Context) ([]T, error) {
	raw, err := col.c.do(ctx, http.MethodGet, fmt.Sprintf("%s?limit=%d", col.path, col.c.pageSize), nil)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s list: %w", col.path, err)
	}
	return out, nil
}

// Create posts the record and returns the server's authoritative copy,
// including the server-assigned id.
func (col *Collection[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	raw, err := col.c.do(ctx, http.MethodPost, col.path, rec)
	if err != nil {
		return zero, err
	}
	return decodeRecord[T](col.path, raw)
}

// Update puts the record to its entity-specific endpoint.
func (col *Collection[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	raw, err := col.c.do(ctx, http.MethodPut, col.path+"/"+url.PathEscape(rec.EntityID()), rec)
	if err != nil {
		return zero, err
	}
	return decodeRecord[T](col.path, raw)
}

// Delete removes the record server-side.
func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	_, err := col.c.do(ctx, http.MethodDelete, col.path+"/"+url.PathEscape(id), nil)
	return err
}

func decodeRecord[T models.Entity](path string, raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("failed to decode %s record: %w", path, err)
	}
	return out, nil
}

// Orders returns the orders collection endpoint.
func (c *Client) Orders() *Collection[*models.Order] {
	return NewCollection[*models.Order](c, "orders")
}

// Inventory returns the stock collection endpoint (named "inventory" on the
// wire).
func (c *Client) Inventory() *Collection[*models.StockItem] {
	return NewCollection[*models.StockItem](c, "inventory")
}

// Payments returns the payments collection endpoint.
func (c *Client) Payments() *Collection[*models.Payment] {
	return NewCollection[*models.Payment](c, "payments")
}

// Clients returns the clients collection endpoint.
func (c *Client) Clients() *Collection[*models.Client] {
	return NewCollection[*models.Client](c, "clients")
}
