package service

import (
	"context"
	"errors"

	"po-analytics/internal/config"
	"po-analytics/internal/models"
	"po-analytics/internal/repository"
	"po-analytics/internal/utils"
)

// ErrAccountsUnavailable is returned for account operations while MySQL is not connected
var ErrAccountsUnavailable = errors.New("user accounts are not available (database not connected)")

// DevUser is the account behind the development login and dev tokens
var DevUser = models.User{
	ID:       1,
	Name:     "Development User",
	Username: "admin",
	Email:    "dev@example.com",
	Role:     "admin",
	IsActive: true,
}

type AuthService struct {
	userRepo *repository.UserRepository
	cfg      *config.Config
}

// NewAuthService builds the service. userRepo may be nil when the database is down; only
// the development login works then.
func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	// Development mode: accept admin credentials
	if !s.cfg.IsProduction() && req.Username == "admin" && req.Password == "admin" {
		return s.issueTokens(DevUser)
	}

	if s.userRepo == nil {
		return nil, ErrAccountsUnavailable
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if !user.IsActive {
		return nil, errors.New("user account is inactive")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errors.New("invalid username or password")
	}

	return s.issueTokens(*user)
}

func (s *AuthService) issueTokens(user models.User) (*models.LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user, s.cfg.JWTSecret, s.cfg.JWTAccessExpire)
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	refreshToken, err := utils.GenerateRefreshToken(user, s.cfg.JWTSecret, s.cfg.JWTRefreshExpire)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*utils.JWTClaims, error) {
	return utils.ValidateToken(tokenString, s.cfg.JWTSecret)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	if id == DevUser.ID && s.userRepo == nil {
		user := DevUser
		return &user, nil
	}
	if s.userRepo == nil {
		return nil, ErrAccountsUnavailable
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if s.userRepo == nil {
		return nil, ErrAccountsUnavailable
	}

	if existing, _ := s.userRepo.FindByUsername(ctx, req.Username); existing != nil {
		return nil, errors.New("username already exists")
	}
	if existing, _ := s.userRepo.FindByEmail(ctx, req.Email); existing != nil {
		return nil, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         "analyst",
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.New("failed to create user")
	}

	return user, nil
}
