package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ArrobaLab/maipro/internal/domain"
	"github.com/ArrobaLab/maipro/internal/dto"
	"github.com/ArrobaLab/maipro/internal/observability/metrics"
	"github.com/ArrobaLab/maipro/internal/store"

	"github.com/golang-jwt/jwt/v5"
)

type TokenConfig struct {
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	SigningKey []byte // HS256 secret
}

type Auth struct {
	store *store.Store
	cfg   TokenConfig
}

func NewAuth(st *store.Store, cfg TokenConfig) *Auth {
	return &Auth{store: st, cfg: cfg}
}

func (a *Auth) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Phone == "" {
		return nil, fmt.Errorf("%w: name, email, password and phone are required", ErrInvalidRequest)
	}
	role := req.Role
	switch role {
	case "":
		role = domain.RoleCustomer
	case domain.RoleCustomer, domain.RoleProvider:
	default:
		// Admin accounts are provisioned out of band.
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidRequest, req.Role)
	}

	if _, err := a.store.Users().GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: %v", ErrConflict, domain.ErrEmailTaken)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	hash, salt, params, err := hashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	user := &domain.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		PasswordParams: params,
		Phone:          req.Phone,
		Role:           role,
		IsActive:       true,
	}
	if err := a.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return a.issue(user)
}

func (a *Auth) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := a.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !verifyPassword(req.Password, user.PasswordHash, user.PasswordSalt, user.PasswordParams) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, domain.ErrUserDisabled
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return a.issue(user)
}

func (a *Auth) GetProfile(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	user, err := a.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (a *Auth) UpdateProfile(ctx context.Context, userID domain.UserID, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Street != nil {
		user.Street = *req.Street
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.ZipCode != nil {
		user.ZipCode = *req.ZipCode
	}
	if err := a.store.Users().Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Auth) issue(user *domain.User) (*dto.TokenResponse, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":  a.cfg.Issuer,
		"aud":  a.cfg.Audience,
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(a.cfg.AccessTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(a.cfg.AccessTTL.Seconds()),
		UserID:      user.ID.String(),
		Role:        user.Role,
	}, nil
}
