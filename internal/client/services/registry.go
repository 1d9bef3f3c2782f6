package services

import (
	"context"
	"fmt"

	"github.com/mkhitrov/furnboard/internal/client/models"
)

// kindOps is the untyped view over one kind's store and API used by the
// sync and reconciliation engines, which dispatch on the queue's kind tag
// at runtime.
type kindOps struct {
	upsert     func(ctx context.Context, rec models.Entity) error
	bulkUpsert func(ctx context.Context, recs []models.Entity) error
	deleteRec  func(ctx context.Context, id string) error
	bulkDelete func(ctx context.Context, ids []string) error
	getAll     func(ctx context.Context) ([]models.Entity, error)

	listRemote   func(ctx context.Context) ([]models.Entity, error)
	createRemote func(ctx context.Context, rec models.Entity) (models.Entity, error)
	updateRemote func(ctx context.Context, rec models.Entity) (models.Entity, error)
	removeRemote func(ctx context.Context, id string) error
}

// Registry maps entity kinds to their store/API pairs.
type Registry struct {
	ops map[models.Kind]kindOps
}

func NewRegistry() *Registry {
	return &Registry{ops: make(map[models.Kind]kindOps)}
}

func (r *Registry) lookup(kind models.Kind) (kindOps, bool) {
	ops, ok := r.ops[kind]
	return ops, ok
}

// Register binds one entity kind to its typed store and API. Called once
// per kind during wiring.
func Register[T models.Entity](r *Registry, kind models.Kind, store Store[T], api CollectionAPI[T]) {
	r.ops[kind] = bindKind(store, api)
}

func bindKind[T models.Entity](store Store[T], api CollectionAPI[T]) kindOps {
	return kindOps{
		upsert: func(ctx context.Context, rec models.Entity) error {
			typed, err := asTyped[T](rec)
			if err != nil {
				return err
			}
			return store.Upsert(ctx, typed)
		},
		bulkUpsert: func(ctx context.Context, recs []models.Entity) error {
			typed := make([]T, len(recs))
			for i, rec := range recs {
				t, err := asTyped[T](rec)
				if err != nil {
					return err
				}
				typed[i] = t
			}
			return store.BulkUpsert(ctx, typed)
		},
		deleteRec:  store.Delete,
		bulkDelete: store.BulkDelete,
		getAll: func(ctx context.Context) ([]models.Entity, error) {
			recs, err := store.GetAll(ctx)
			if err != nil {
				return nil, err
			}
			return asEntities(recs), nil
		},
		listRemote: func(ctx context.Context) ([]models.Entity, error) {
			recs, err := api.List(ctx)
			if err != nil {
				return nil, err
			}
			return asEntities(recs), nil
		},
		createRemote: func(ctx context.Context, rec models.Entity) (models.Entity, error) {
			typed, err := asTyped[T](rec)
			if err != nil {
				return nil, err
			}
			return api.Create(ctx, typed)
		},
		updateRemote: func(ctx context.Context, rec models.Entity) (models.Entity, error) {
			typed, err := asTyped[T](rec)
			if err != nil {
				return nil, err
			}
			return api.Update(ctx, typed)
		},
		removeRemote: api.Delete,
	}
}

func asTyped[T models.Entity](rec models.Entity) (T, error) {
	typed, ok := rec.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("unexpected record type %T", rec)
	}
	return typed, nil
}

func asEntities[T models.Entity](recs []T) []models.Entity {
	out := make([]models.Entity, len(recs))
	for i, rec := range recs {
		out[i] = rec
	}
	return out
}
