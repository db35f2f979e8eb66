package user

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	ifscRegex  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// Email Value object - immutable, represents email address
type Email struct {
	value string
}

// NewEmail Create new Email value object
func NewEmail(email string) (*Email, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	return &Email{value: email}, nil
}

// Value Get email value
func (e Email) Value() string {
	return e.value
}

// Equals Compare if two Email value objects are equal
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// String Implement Stringer interface
func (e Email) String() string {
	return e.value
}

// PayoutInfo is the bank or UPI destination an artisan is paid to. Every field is optional in storage;
// a payout requires AccountNumber.
type PayoutInfo struct {
	AccountHolderName string
	AccountNumber     string
	BankName          string
	IFSCCode          string
	UPIID             string
}

// Validate checks a submitted payout destination: a bank account needs a holder and a well-formed IFSC,
// and at least one of account number or UPI id must be present.
func (p PayoutInfo) Validate() error {
	if strings.TrimSpace(p.AccountNumber) == "" && strings.TrimSpace(p.UPIID) == "" {
		return NewInvalidPayoutInfoError("accountNumber", "account number or UPI id is required")
	}
	if strings.TrimSpace(p.AccountNumber) != "" {
		if strings.TrimSpace(p.AccountHolderName) == "" {
			return NewInvalidPayoutInfoError("accountHolderName", "account holder name is required")
		}
		if p.IFSCCode != "" && !ifscRegex.MatchString(strings.ToUpper(p.IFSCCode)) {
			return NewInvalidPayoutInfoError("ifscCode", "invalid IFSC code")
		}
	}
	return nil
}

// HasBankAccount reports whether a bank transfer is possible.
func (p PayoutInfo) HasBankAccount() bool {
	return strings.TrimSpace(p.AccountNumber) != ""
}
