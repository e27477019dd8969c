package service

import (
	"context"
	"errors"
	"time"

	"pharmapos/internal/dto"
	"pharmapos/internal/model"
	"pharmapos/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles signup, login and token issuance. Phones listed in
// ADMIN_PHONES are promoted to the admin role at signup time.
type AuthService struct {
	users       repository.UserRepository
	jwtSecret   []byte
	tokenTTL    time.Duration
	adminPhones map[string]struct{}
	now         func() time.Time
}

func NewAuthService(users repository.UserRepository, jwtSecret string, tokenTTL time.Duration, adminPhones []string) *AuthService {
	admins := make(map[string]struct{}, len(adminPhones))
	for _, p := range adminPhones {
		admins[p] = struct{}{}
	}
	return &AuthService{
		users:       users,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		adminPhones: admins,
		now:         time.Now,
	}
}

func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.UserResponse, error) {
	if _, err := s.users.FindByPhone(ctx, req.Phone); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := "customer"
	if _, ok := s.adminPhones[req.Phone]; ok {
		role = "admin"
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"name":    user.Name,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        toUserResponse(user),
	}, nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID.String(), Name: u.Name, Phone: u.Phone, Role: u.Role}
}
