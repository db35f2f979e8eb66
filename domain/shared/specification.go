package shared

import "context"

// Specification encapsulates a business rule used to select aggregates.
// In-memory repositories evaluate it directly; the gorm repositories express the same rules as queries.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, entity T) bool
}

// SpecFunc adapts a plain predicate to Specification. It has no query form.
type SpecFunc[T any] func(ctx context.Context, entity T) bool

func (f SpecFunc[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return f(ctx, entity)
}

// AndSpecification is satisfied when every member is.
type AndSpecification[T any] struct {
	Specs []Specification[T]
}

func (s AndSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	for _, spec := range s.Specs {
		if !spec.IsSatisfiedBy(ctx, entity) {
			return false
		}
	}
	return true
}

func And[T any](specs ...Specification[T]) Specification[T] {
	return AndSpecification[T]{Specs: specs}
}

// NotSpecification negates Spec.
type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (s NotSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return !s.Spec.IsSatisfiedBy(ctx, entity)
}

func Not[T any](spec Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: spec}
}
