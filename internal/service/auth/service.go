package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// Service resolves credentials to an identity carrying a role claim. The
// core trusts the resolved role; everything upstream of it lives here.
type Service struct {
	userRepo     ports.UserRepository
	customerRepo ports.CustomerRepository
	cache        ports.Cache
	jwtSecret    []byte
	log          *zap.Logger
}

// NewService creates a new auth service
func NewService(userRepo ports.UserRepository, customerRepo ports.CustomerRepository, cache ports.Cache, jwtSecret string, log *zap.Logger) *Service {
	return &Service{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		cache:        cache,
		jwtSecret:    []byte(jwtSecret),
		log:          log,
	}
}

// Login verifies credentials and returns access and refresh tokens
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	return s.generateTokens(user)
}

// Register creates a new account. Role defaults to customer; agent and
// manager accounts are provisioned by an existing manager. Customer
// accounts get a customer profile under the same ID, so the pricing
// history lookup resolves for every registered customer.
func (s *Service) Register(ctx context.Context, user *domain.User) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleCustomer
	}
	user.Status = "active"
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	if user.Role == domain.UserRoleCustomer {
		customer := &domain.Customer{
			ID:        user.ID,
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		}
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			return fmt.Errorf("failed to create customer profile: %w", err)
		}
	}

	return nil
}

// ValidateToken parses an access token and loads the account behind it
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid user id in token")
	}

	// Revoked tokens are blacklisted in the cache until expiry
	if s.cache != nil {
		if revoked, err := s.cache.Get(ctx, "auth:revoked:"+tokenString); err == nil && revoked != "" {
			return nil, errors.New("token revoked")
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}

func (s *Service) generateTokens(user *domain.User) (string, string, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(accessTokenTTL).Unix(),
	})
	accessToken, err := access.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(refreshTokenTTL).Unix(),
	})
	refreshToken, err := refresh.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}
