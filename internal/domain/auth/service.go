package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/domain/user"
	"github.com/hotelbook/hotel-api/internal/pkg/jwt"
	"github.com/hotelbook/hotel-api/internal/pkg/password"
)

// Service handles authentication business logic
type Service struct {
	userRepo   user.Repository
	jwtService *jwt.Service
}

// NewService creates auth service
func NewService(userRepo user.Repository, jwtService *jwt.Service) *Service {
	return &Service{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates new user account. At most one admin may ever exist.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.Username = normalizeUsername(req.Username)

	// 1. Check username and email
	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.ErrUserAlreadyExists
	}

	// 2. Single admin
	if req.IsAdmin {
		adminExists, err := s.userRepo.AdminExists(ctx)
		if err != nil {
			return nil, err
		}
		if adminExists {
			return nil, user.ErrAdminAlreadyExists
		}
	}

	// 3. Hash password
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user; unique indexes catch concurrent registrations
	var dob *time.Time
	if req.Dob != "" {
		d, err := time.Parse(time.DateOnly, req.Dob)
		if err != nil {
			return nil, ErrInvalidDateOfBirth
		}
		dob = &d
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
		DateOfBirth:  dob,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return userResponse(u), nil
}

// Login authenticates user and issues an access token
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if u == nil || !password.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(u.ID, u.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		Token:     token,
		ExpiresIn: int64(s.jwtService.GetAccessTTL().Seconds()),
		User:      userResponse(u),
	}, nil
}
