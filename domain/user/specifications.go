package user

import (
	"context"

	"marketplace/domain/shared"
)

type ByEmailSpecification struct {
	Email string
}

func (spec ByEmailSpecification) IsSatisfiedBy(_ context.Context, entity *User) bool {
	return entity.Email().Value() == spec.Email
}

type ByStatusSpecification struct {
	Active bool
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, entity *User) bool {
	return entity.IsActive() == spec.Active
}

type ByRoleSpecification struct {
	Role shared.Role
}

func (spec ByRoleSpecification) IsSatisfiedBy(_ context.Context, entity *User) bool {
	return entity.HasRole(spec.Role)
}

func NewByEmailSpecification(email string) shared.Specification[*User] {
	return ByEmailSpecification{Email: email}
}

func NewByStatusSpecification(active bool) shared.Specification[*User] {
	return ByStatusSpecification{Active: active}
}

func NewByRoleSpecification(role shared.Role) shared.Specification[*User] {
	return ByRoleSpecification{Role: role}
}
