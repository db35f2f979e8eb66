package memory

import (
	"context"
	"sort"
	"strings"

	"marketplace/domain/shared"
	"marketplace/domain/user"
)

// UserRepository In-memory implementation of user.Repository
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	dto := u.ToDTO()
	expected := u.Version()
	isNew := u.IsNew()

	err := r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.users[dto.ID]
		if isNew && exists {
			return nil, user.NewUserAlreadyExistsError(dto.ID)
		}
		if !isNew {
			if !exists {
				return nil, user.NewUserNotFoundError(dto.ID)
			}
			if prev.Version != expected {
				return nil, shared.NewConcurrentModificationError("user", dto.ID)
			}
		}
		for id, other := range s.users {
			if id != dto.ID && strings.EqualFold(other.Email, dto.Email) {
				return nil, user.NewEmailAlreadyExistsError(dto.Email)
			}
		}
		next := dto
		next.Version = expected + 1
		s.users[dto.ID] = next
		return func() {
			if exists {
				s.users[dto.ID] = prev
			} else {
				delete(s.users, dto.ID)
			}
		}, nil
	})
	if err != nil {
		return err
	}

	u.IncrementVersionForSave()
	u.MarkPersisted()
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	dto, ok := r.store.users[id]
	if !ok {
		return nil, user.NewUserNotFoundError(id)
	}
	return user.RebuildFromDTO(dto), nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if dto, ok := r.store.users[id]; ok {
			out = append(out, user.RebuildFromDTO(dto))
		}
	}
	return out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, dto := range r.store.users {
		if strings.EqualFold(dto.Email, strings.TrimSpace(email)) {
			return user.RebuildFromDTO(dto), nil
		}
	}
	return nil, user.NewUserNotFoundError(email)
}

func (r *UserRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*user.User]) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*user.User
	for _, dto := range r.store.users {
		u := user.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

var _ user.Repository = (*UserRepository)(nil)
