package user

import (
	"context"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"
	"comprasmart/pkg/utils"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// IdentityProvider propagates account suspension to the external identity
// platform so a suspended user cannot mint fresh sessions there.
type IdentityProvider interface {
	BlockUser(ctx context.Context, auth0ID, reason string) error
	UnblockUser(ctx context.Context, auth0ID string) error
}

type EmailSender interface {
	SendEmail(toName, toEmail, subject, message string) error
}

type RegisterInput struct {
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Role         string `json:"role" validate:"required,oneof=consultant store_owner admin"`
	ConsultantID string `json:"consultant_id" validate:"omitempty,uuid"`
	StoreID      string `json:"store_id" validate:"omitempty,uuid"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type UserService struct {
	userRepo UserRepository
	identity IdentityProvider
	email    EmailSender
}

func NewUserService(userRepo UserRepository, identity IdentityProvider, email EmailSender) *UserService {
	return &UserService{
		userRepo: userRepo,
		identity: identity,
		email:    email,
	}
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, apperr.Internal(err, "hashing password")
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FullName:     input.FullName,
		Email:        input.Email,
		Password:     hashed,
		Role:         input.Role,
		Active:       true,
		ConsultantID: input.ConsultantID,
		StoreID:      input.StoreID,
	}

	if err := s.userRepo.Create(ctx, &user); err != nil {
		return domain.User{}, err
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login checks credentials and issues a signed token. Inactive accounts are
// rejected with the same status a wrong role would get, not a credential
// error.
func (s *UserService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return LoginResult{}, apperr.Validation("invalid email or password")
		}
		return LoginResult{}, err
	}

	if !utils.CheckPassword(input.Password, user.Password) {
		return LoginResult{}, apperr.Validation("invalid email or password")
	}

	if !user.Active {
		return LoginResult{}, apperr.Authorization("account is suspended")
	}

	token, err := utils.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, apperr.Internal(err, "signing token")
	}

	return LoginResult{Token: token, User: user}, nil
}

// Suspend deactivates the account locally, blocks it at the identity
// provider and notifies the user. Identity and notification failures are
// logged, not returned: the local suspension is the source of truth.
func (s *UserService) Suspend(ctx context.Context, userID, reason string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		return err
	}

	if user.Auth0ID != "" {
		if err := s.identity.BlockUser(ctx, user.Auth0ID, reason); err != nil {
			logger.Error("failed to block user at identity provider", err, "user_id", userID)
		}
	}

	go func() {
		err := s.email.SendEmail(user.FullName, user.Email,
			"Your account has been suspended",
			"Your account was suspended. Reason: "+reason+". Contact support for help.")
		if err != nil {
			logger.Error("failed to send suspension email", err, "user_id", userID)
		}
	}()

	logger.Warn("user suspended", "user_id", userID, "reason", reason)
	return nil
}

func (s *UserService) Reactivate(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, userID, true); err != nil {
		return err
	}

	if user.Auth0ID != "" {
		if err := s.identity.UnblockUser(ctx, user.Auth0ID); err != nil {
			logger.Error("failed to unblock user at identity provider", err, "user_id", userID)
		}
	}

	logger.Info("user reactivated", "user_id", userID)
	return nil
}
