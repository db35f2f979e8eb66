package user

import (
	"strings"
	"time"

	"marketplace/domain/shared"
)

// User 用户聚合根
// 身份由上游网关认证，这里只保存资料、角色与结算账户
//
// 聚合根特征：
// 1. 所有字段私有，通过方法暴露行为
// 2. 包含版本号用于乐观锁
// 3. 嵌入 EventRecorder 记录领域事件
type User struct {
	shared.EventRecorder

	id         string
	name       string
	email      Email
	roles      []shared.Role
	isActive   bool
	payoutInfo PayoutInfo
	version    int // 乐观锁版本号
	createdAt  time.Time
	updatedAt  time.Time

	isNew bool
}

// NewUser 注册用户资料。id 来自网关认证的主体，roles 为空时默认 customer
func NewUser(id, name, email string, roles []shared.Role) (*User, error) {
	if err := shared.ValidateID("user", "id", id); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewInvalidNameError()
	}
	emailVO, err := NewEmail(email)
	if err != nil {
		return nil, NewInvalidEmailError(email)
	}

	now := time.Now()
	u := &User{
		id:        id,
		name:      name,
		email:     *emailVO,
		roles:     normalizeRoles(roles),
		isActive:  true,
		createdAt: now,
		updatedAt: now,
		isNew:     true,
	}
	u.Record(NewUserRegisteredEvent(u.id, u.name, u.email.Value()))
	return u, nil
}

func normalizeRoles(roles []shared.Role) []shared.Role {
	out := make([]shared.Role, 0, len(roles)+1)
	seen := make(map[shared.Role]struct{})
	for _, r := range roles {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = append(out, shared.RoleCustomer)
	}
	return out
}

// ============================================================================
// 领域行为方法
// ============================================================================

// BecomeArtisan 开通卖家身份（幂等）
func (u *User) BecomeArtisan() error {
	if !u.isActive {
		return NewUserNotActiveError(u.id)
	}
	if u.HasRole(shared.RoleArtisan) {
		return nil
	}
	u.roles = append(u.roles, shared.RoleArtisan)
	u.updatedAt = time.Now()
	u.Record(NewArtisanOnboardedEvent(u.id))
	return nil
}

// UpdatePayoutInfo 设置结算账户，仅卖家可用
func (u *User) UpdatePayoutInfo(info PayoutInfo) error {
	if !u.HasRole(shared.RoleArtisan) {
		return NewNotArtisanError(u.id)
	}
	if err := info.Validate(); err != nil {
		return err
	}
	u.payoutInfo = info
	u.updatedAt = time.Now()
	return nil
}

// UpdateName 更新用户名称
func (u *User) UpdateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewInvalidNameError()
	}
	u.name = name
	u.updatedAt = time.Now()
	return nil
}

// Deactivate 停用用户
func (u *User) Deactivate() {
	u.isActive = false
	u.updatedAt = time.Now()
}

// HasRole 检查是否持有角色
func (u *User) HasRole(role shared.Role) bool {
	for _, r := range u.roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanReceivePayout 结算前置条件：卖家且已填写银行账号
func (u *User) CanReceivePayout() error {
	if !u.HasRole(shared.RoleArtisan) {
		return NewNotArtisanError(u.id)
	}
	if !u.payoutInfo.HasBankAccount() {
		return NewMissingBankAccountError(u.id)
	}
	return nil
}

// IncrementVersionForSave 仓储保存成功后调用
func (u *User) IncrementVersionForSave() {
	u.version++
}

// ============================================================================
// Getters - 只读访问器
// ============================================================================
func (u *User) ID() string             { return u.id }
func (u *User) Name() string           { return u.name }
func (u *User) Email() Email           { return u.email }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) PayoutInfo() PayoutInfo { return u.payoutInfo }
func (u *User) Version() int           { return u.version }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }
func (u *User) IsNew() bool            { return u.isNew }

// Roles 返回角色副本
func (u *User) Roles() []shared.Role {
	return append([]shared.Role(nil), u.roles...)
}

// MarkPersisted 保存成功后清除新建标记
func (u *User) MarkPersisted() { u.isNew = false }

// ReconstructionDTO 用户重建数据传输对象
// ⚠️ 注意：此DTO仅应在仓储实现中使用，不应在应用层调用
type ReconstructionDTO struct {
	ID         string
	Name       string
	Email      string
	Roles      []shared.Role
	IsActive   bool
	PayoutInfo PayoutInfo
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RebuildFromDTO 从DTO重建User聚合根
func RebuildFromDTO(dto ReconstructionDTO) *User {
	return &User{
		id:         dto.ID,
		name:       dto.Name,
		email:      Email{value: dto.Email},
		roles:      append([]shared.Role(nil), dto.Roles...),
		isActive:   dto.IsActive,
		payoutInfo: dto.PayoutInfo,
		version:    dto.Version,
		createdAt:  dto.CreatedAt,
		updatedAt:  dto.UpdatedAt,
	}
}

// ToDTO 导出持久化视图
func (u *User) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:         u.id,
		Name:       u.name,
		Email:      u.email.Value(),
		Roles:      u.Roles(),
		IsActive:   u.isActive,
		PayoutInfo: u.payoutInfo,
		Version:    u.version,
		CreatedAt:  u.createdAt,
		UpdatedAt:  u.updatedAt,
	}
}

// 编译时检查 User 实现了 AggregateRoot 接口
var _ shared.AggregateRoot = (*User)(nil)
