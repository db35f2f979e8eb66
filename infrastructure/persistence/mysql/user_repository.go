package mysql

import (
	"context"
	"strings"

	"marketplace/domain/shared"
	"marketplace/domain/user"
	"marketplace/infrastructure/persistence/mysql/po"
	"marketplace/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

type UserRepository struct {
	base
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{base{db: db}}
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	userPO := po.FromUserDomain(u)

	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if u.IsNew() {
			userPO.Version = 1
			if err := tx.Create(userPO).Error; err != nil {
				if isDuplicateKeyError(err) {
					return user.NewEmailAlreadyExistsError(userPO.Email)
				}
				return err
			}
			return nil
		}

		expectedVersion := u.Version()
		// 严格乐观锁：必须使用聚合当前版本作为更新条件，避免静默覆盖并发写入。
		result := tx.Model(&po.UserPO{}).
			Where("id = ? AND version = ?", u.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"name":                userPO.Name,
				"email":               userPO.Email,
				"roles":               userPO.Roles,
				"is_active":           userPO.IsActive,
				"account_holder_name": userPO.AccountHolderName,
				"account_number":      userPO.AccountNumber,
				"bank_name":           userPO.BankName,
				"ifsc_code":           userPO.IFSCCode,
				"upi_id":              userPO.UPIID,
				"version":             expectedVersion + 1,
				"updated_at":          userPO.UpdatedAt,
			})
		if result.Error != nil {
			if isDuplicateKeyError(result.Error) {
				return user.NewEmailAlreadyExistsError(userPO.Email)
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.UserPO{}).Where("id = ?", u.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return user.NewUserNotFoundError(u.ID())
			}
			return shared.NewConcurrentModificationError("user", u.ID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.IncrementVersionForSave()
	u.MarkPersisted()
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var userPO po.UserPO
	if err := r.getDB(ctx).First(&userPO, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, user.NewUserNotFoundError(id)
		}
		return nil, err
	}
	return userPO.ToDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var userPOs []po.UserPO
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&userPOs).Error; err != nil {
		return nil, err
	}
	return toUsers(userPOs), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := r.FindBySpecification(ctx, user.NewByEmailSpecification(email))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, user.NewUserNotFoundError(email)
	}
	return users[0], nil
}

// FindBySpecification pushes translatable specs into SQL and evaluates the rest in memory.
func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	db := r.getDB(ctx).Model(&po.UserPO{})
	scope, translated := specification.UserScope(spec)
	if translated {
		db = db.Scopes(scope)
	}

	var userPOs []po.UserPO
	if err := db.Order("id").Find(&userPOs).Error; err != nil {
		return nil, err
	}
	users := toUsers(userPOs)
	if translated {
		return users, nil
	}

	filtered := users[:0]
	for _, u := range users {
		if spec.IsSatisfiedBy(ctx, u) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func toUsers(userPOs []po.UserPO) []*user.User {
	users := make([]*user.User, len(userPOs))
	for i := range userPOs {
		users[i] = userPOs[i].ToDomain()
	}
	return users
}

var _ user.Repository = (*UserRepository)(nil)
