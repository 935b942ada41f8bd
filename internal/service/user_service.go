package service

import (
	"fmt"

	"go-stocktrack/internal/domain"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	SetAdmin(userID uuid.UUID, isAdmin bool) (*model.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) SetAdmin(userID uuid.UUID, isAdmin bool) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	if err := s.userRepo.SetAdmin(userID, isAdmin); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorage, err)
	}

	user.IsAdmin = isAdmin
	resp := user.ToResponse()
	return &resp, nil
}
