package shared

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewID generates a time-ordered identifier for a new aggregate.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ValidateID rejects empty or malformed identifiers before they reach a repository.
func ValidateID(entity, field, id string) error {
	if strings.TrimSpace(id) == "" {
		return NewValidationError(entity, field, field+" is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return NewValidationError(entity, field, "invalid "+field+" format")
	}
	return nil
}

// Role is the view a user acts in; notifications are tagged with one.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleArtisan  Role = "artisan"
	RoleAdmin    Role = "admin"
)

// ParseRole validates r against the three known roles.
func ParseRole(r string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(r))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleArtisan:
		return RoleArtisan, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", NewValidationError("role", "role", "role must be one of customer, artisan, admin")
}

func (r Role) String() string { return string(r) }

// RoundMoney rounds half away from zero to two decimal places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
