package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/flashboard/board-service/internal/domain"
	"github.com/flashboard/board-service/internal/security"
)

// UserService handles registration, login, and profile management.
type UserService struct {
	users  domain.UserStore
	hasher security.PasswordHasher
	gate   security.TokenIssuer
}

func NewUserService(users domain.UserStore, hasher security.PasswordHasher, gate security.TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, gate: gate}
}

type RegisterInput struct {
	Username       string
	Mail           string
	Password       string
	IsEmailVisible bool
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:             uuid.New(),
		Username:       in.Username,
		Mail:           strings.ToLower(in.Mail),
		PasswordHash:   hash,
		IsEmailVisible: in.IsEmailVisible,
	}
	return s.users.Create(ctx, u)
}

// Login authenticates a user and issues a signed token.
// IMPORTANT: must not leak whether the username exists.
func (s *UserService) Login(ctx context.Context, username, password string) (string, domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", domain.User{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Hide not-found behind invalid credentials
		return "", domain.User{}, domain.ErrInvalidCredentials()
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials()
	}

	token, err := s.gate.Issue(u)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}

type UpdateUserInput struct {
	NewMail        *string
	NewPassword    *string
	IsEmailVisible *bool
}

func (s *UserService) Update(ctx context.Context, userID uuid.UUID, in UpdateUserInput) error {
	if in.NewMail == nil && in.NewPassword == nil && in.IsEmailVisible == nil {
		return domain.ErrInvalidField("body", "nothing to change")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if in.NewMail != nil {
		u.Mail = strings.ToLower(strings.TrimSpace(*in.NewMail))
	}
	if in.NewPassword != nil {
		hash, err := s.hasher.Hash(*in.NewPassword)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	if in.IsEmailVisible != nil {
		u.IsEmailVisible = *in.IsEmailVisible
	}
	return s.users.Update(ctx, u)
}

func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.users.Delete(ctx, userID)
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
