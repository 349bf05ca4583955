package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RanchesW/KazRPG/internal/auth"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/repositories"
	"github.com/RanchesW/KazRPG/internal/services/dto"
	"github.com/RanchesW/KazRPG/pkg/apperrors"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
}

type authService struct {
	userRepo   repositories.UserRepository
	tokenMaker *auth.TokenMaker
}

func NewAuthService(userRepo repositories.UserRepository, tokenMaker *auth.TokenMaker) AuthService {
	return &authService{userRepo: userRepo, tokenMaker: tokenMaker}
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	exists, err := s.userRepo.ExistsByEmailOrUsername(db, req.Email, req.Username)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if exists {
		return nil, apperrors.ErrAlreadyExists(repositories.ErrUserAlreadyExists)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	language := models.Language(req.Language)
	if language == "" {
		language = models.LanguageRU
	}

	role := models.UserRolePlayer
	if req.IsGM {
		role = models.UserRoleGM
	}

	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		City:         req.City,
		Language:     language,
		Role:         role,
		IsGM:         req.IsGM,
	}

	if err := s.userRepo.CreateUser(db, user); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindUserByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.NewUnauthorizedError(ErrInvalidCredentials.Error())
		}
		return nil, apperrors.DatabaseError(err)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError(ErrInvalidCredentials.Error())
	}

	return s.buildAuthResponse(user)
}

func (s *authService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindUserByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.DatabaseError(err)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokenMaker.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{Token: token, User: userToResponse(user)}, nil
}
