package po

import (
	"strings"
	"time"

	"marketplace/domain/shared"
	"marketplace/domain/user"
)

type UserPO struct {
	ID                string    `gorm:"primaryKey;size:64"`
	Name              string    `gorm:"size:100;not null"`
	Email             string    `gorm:"size:255;uniqueIndex;not null"`
	Roles             string    `gorm:"size:64;not null"` // comma separated
	IsActive          bool      `gorm:"default:true"`
	AccountHolderName string    `gorm:"size:100"`
	AccountNumber     string    `gorm:"size:34"`
	BankName          string    `gorm:"size:100"`
	IFSCCode          string    `gorm:"column:ifsc_code;size:11"`
	UPIID             string    `gorm:"column:upi_id;size:100"`
	Version           int       `gorm:"default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (UserPO) TableName() string {
	return "users"
}

func FromUserDomain(u *user.User) *UserPO {
	roles := make([]string, 0, len(u.Roles()))
	for _, r := range u.Roles() {
		roles = append(roles, string(r))
	}
	info := u.PayoutInfo()
	return &UserPO{
		ID:                u.ID(),
		Name:              u.Name(),
		Email:             u.Email().Value(),
		Roles:             strings.Join(roles, ","),
		IsActive:          u.IsActive(),
		AccountHolderName: info.AccountHolderName,
		AccountNumber:     info.AccountNumber,
		BankName:          info.BankName,
		IFSCCode:          info.IFSCCode,
		UPIID:             info.UPIID,
		Version:           u.Version(),
		CreatedAt:         u.CreatedAt(),
		UpdatedAt:         u.UpdatedAt(),
	}
}

func (po *UserPO) ToDomain() *user.User {
	var roles []shared.Role
	for _, r := range strings.Split(po.Roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, shared.Role(r))
		}
	}
	return user.RebuildFromDTO(user.ReconstructionDTO{
		ID:    po.ID,
		Name:  po.Name,
		Email: po.Email,
		Roles: roles,
		PayoutInfo: user.PayoutInfo{
			AccountHolderName: po.AccountHolderName,
			AccountNumber:     po.AccountNumber,
			BankName:          po.BankName,
			IFSCCode:          po.IFSCCode,
			UPIID:             po.UPIID,
		},
		IsActive:  po.IsActive,
		Version:   po.Version,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	})
}
