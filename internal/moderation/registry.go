package moderation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kai890707/my-profile-sub000/pkg/db/models"
	"github.com/kai890707/my-profile-sub000/pkg/enums"
	pkgerrors "github.com/kai890707/my-profile-sub000/pkg/errors"
)

// Queue is the type-erased admin surface of a workflow.
type Queue interface {
	EntityType() enums.EntityType
	CountPending(ctx context.Context) (int64, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Moderatable, error)
	Decide(ctx context.Context, admin Actor, id uuid.UUID, d Decision) (models.Moderatable, error)
}

// Registry routes admin requests to the workflow of an entity type.
type Registry struct {
	queues map[enums.EntityType]Queue
	order  []enums.EntityType
}

func NewRegistry(queues ...Queue) (*Registry, error) {
	r := &Registry{queues: make(map[enums.EntityType]Queue, len(queues))}
	for _, q := range queues {
		if q == nil {
			return nil, fmt.Errorf("nil queue")
		}
		t := q.EntityType()
		if _, exists := r.queues[t]; exists {
			return nil, fmt.Errorf("queue for %s registered twice", t)
		}
		r.queues[t] = q
		r.order = append(r.order, t)
	}
	return r, nil
}

func (r *Registry) Types() []enums.EntityType {
	out := make([]enums.EntityType, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Lookup(entityType enums.EntityType) (Queue, error) {
	q, ok := r.queues[entityType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported entity type "+string(entityType)).
			WithDetails(map[string]string{"entity_type": "oneof"})
	}
	return q, nil
}

// Decide approves or rejects one record of the given type.
func (r *Registry) Decide(ctx context.Context, admin Actor, entityType enums.EntityType, id uuid.UUID, d Decision) (models.Moderatable, error) {
	if err := AssertAdmin(admin); err != nil {
		return nil, err
	}
	q, err := r.Lookup(entityType)
	if err != nil {
		return nil, err
	}
	return q.Decide(ctx, admin, id, d)
}
