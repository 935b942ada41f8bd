package service

import (
	"errors"
	"fmt"

	"go-stocktrack/internal/domain"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is inactive")
)

type AuthService interface {
	Register(username, password string) (*LoginResponse, error)
	Login(username, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*model.UserResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(username, password string) (*LoginResponse, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrInvalidInput)
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("username '%s': %w", username, domain.ErrConflict)
	}

	user := &model.User{
		Username: username,
		IsActive: true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, errors.New("failed to hash password")
	}
	user.CreatedBy = username
	user.UpdatedBy = username

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	return s.issueToken(user)
}

func (s *authService) Login(username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		// Unknown user and wrong password are indistinguishable to the caller.
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*model.UserResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) issueToken(user *model.User) (*LoginResponse, error) {
	token, err := jwt.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}
