package user

import (
	"context"
	"time"

	"marketplace/domain/shared"
	"marketplace/domain/user"
)

// ApplicationService User application service - profiles, artisan onboarding and payout details
type ApplicationService struct {
	userRepo          user.Repository
	userDomainService *user.DomainService
	uowFactory        shared.UnitOfWorkFactory
}

// NewApplicationService Create user application service
func NewApplicationService(userRepo user.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{
		userRepo:          userRepo,
		userDomainService: user.NewDomainService(userRepo),
		uowFactory:        uowFactory,
	}
}

// RegisterRequest Register profile request DTO. The id is the authenticated principal.
type RegisterRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// PayoutInfoRequest Payout destination request DTO
type PayoutInfoRequest struct {
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	BankName          string `json:"bankName"`
	IFSCCode          string `json:"ifscCode"`
	UPIID             string `json:"upiId"`
}

// UserResponse User response DTO
type UserResponse struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Roles      []string           `json:"roles"`
	IsActive   bool               `json:"isActive"`
	PayoutInfo *PayoutInfoRequest `json:"payoutInfo,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Register creates the caller's profile as a customer.
func (s *ApplicationService) Register(ctx context.Context, principalID string, req RegisterRequest) (*UserResponse, error) {
	var u *user.User

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.FindByID(ctx, principalID); err == nil {
			return user.NewUserAlreadyExistsError(principalID)
		}
		if err := s.userDomainService.EnsureEmailAvailable(ctx, req.Email, principalID); err != nil {
			return err
		}

		var err error
		u, err = user.NewUser(principalID, req.Name, req.Email, []shared.Role{shared.RoleCustomer})
		if err != nil {
			return err
		}
		if err := s.userRepo.Save(ctx, u); err != nil {
			return err
		}
		uow.RegisterNew(u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return convertToResponse(u), nil
}

// GetUser Get user information
func (s *ApplicationService) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return convertToResponse(u), nil
}

// BecomeArtisan adds the artisan role to the caller. Repeating it is a no-op.
func (s *ApplicationService) BecomeArtisan(ctx context.Context, userID string) (*UserResponse, error) {
	return s.update(ctx, userID, func(u *user.User) error {
		return u.BecomeArtisan()
	})
}

// UpdatePayoutInfo stores where an artisan is paid.
func (s *ApplicationService) UpdatePayoutInfo(ctx context.Context, userID string, req PayoutInfoRequest) (*UserResponse, error) {
	return s.update(ctx, userID, func(u *user.User) error {
		return u.UpdatePayoutInfo(user.PayoutInfo{
			AccountHolderName: req.AccountHolderName,
			AccountNumber:     req.AccountNumber,
			BankName:          req.BankName,
			IFSCCode:          req.IFSCCode,
			UPIID:             req.UPIID,
		})
	})
}

// ListArtisans returns every active artisan.
func (s *ApplicationService) ListArtisans(ctx context.Context) ([]*UserResponse, error) {
	spec := shared.And(
		user.NewByRoleSpecification(shared.RoleArtisan),
		user.NewByStatusSpecification(true),
	)
	users, err := s.userRepo.FindBySpecification(ctx, spec)
	if err != nil {
		return nil, err
	}
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = convertToResponse(u)
	}
	return out, nil
}

func (s *ApplicationService) update(ctx context.Context, userID string, change func(*user.User) error) (*UserResponse, error) {
	var u *user.User

	uow := s.uowFactory.New()
	err := uow.Execute(ctx, func(ctx context.Context) error {
		loaded, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if err := change(loaded); err != nil {
			return err
		}
		if err := s.userRepo.Save(ctx, loaded); err != nil {
			return err
		}
		uow.RegisterDirty(loaded)
		u = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return convertToResponse(u), nil
}

// convertToResponse Convert user entity to response DTO
func convertToResponse(u *user.User) *UserResponse {
	roles := make([]string, 0, len(u.Roles()))
	for _, r := range u.Roles() {
		roles = append(roles, r.String())
	}
	resp := &UserResponse{
		ID:        u.ID(),
		Name:      u.Name(),
		Email:     u.Email().Value(),
		Roles:     roles,
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
	if info := u.PayoutInfo(); info.HasBankAccount() || info.UPIID != "" {
		resp.PayoutInfo = &PayoutInfoRequest{
			AccountHolderName: info.AccountHolderName,
			AccountNumber:     info.AccountNumber,
			BankName:          info.BankName,
			IFSCCode:          info.IFSCCode,
			UPIID:             info.UPIID,
		}
	}
	return resp
}
