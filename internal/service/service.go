package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/cache"
	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/Tau-rai/fintrekapi/internal/insights"
	"github.com/Tau-rai/fintrekapi/internal/integrations/rates"
	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/Tau-rai/fintrekapi/internal/repository"
	"github.com/Tau-rai/fintrekapi/internal/utils/email"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalid marks request validation failures so handlers can map them to
// 400 responses
var ErrInvalid = errors.New("invalid request")

// cacheTTL is how long computed read-path values stay memoized
const cacheTTL = time.Hour

// Service handles business logic
type Service struct {
	repo         *repository.Repository
	log          *logrus.Logger
	config       *config.Config
	cache        *cache.Cache
	orchestrator *insights.Orchestrator
	mailer       *email.Sender
	rates        *rates.Client
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config,
	c *cache.Cache, orchestrator *insights.Orchestrator, mailer *email.Sender, ratesClient *rates.Client) *Service {
	return &Service{
		repo:         repo,
		log:          log,
		config:       cfg,
		cache:        c,
		orchestrator: orchestrator,
		mailer:       mailer,
		rates:        ratesClient,
	}
}

// ExchangeRates returns conversion rates from the given currency, memoized
// for an hour per currency
func (s *Service) ExchangeRates(ctx context.Context, from string) (*rates.Rates, error) {
	key := fmt.Sprintf("exchange_rate_%s", from)
	result := &rates.Rates{}
	err := s.cache.GetOrCompute(ctx, key, cacheTTL, result, func() (interface{}, error) {
		return s.rates.GetRates(ctx, from)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// maxNameLen bounds the first and last name fields
const maxNameLen = 150

func profileCacheKey(userID int64) string {
	return fmt.Sprintf("user_profile_%d", userID)
}

// Profile returns the user's profile, memoized for an hour
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	result := &models.User{}
	err := s.cache.GetOrCompute(ctx, profileCacheKey(userID), cacheTTL, result, func() (interface{}, error) {
		return s.repo.FindUserByID(userID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateProfile updates the user's first and last name and invalidates the
// cached profile
func (s *Service) UpdateProfile(ctx context.Context, userID int64, firstName, lastName string) (*models.User, error) {
	if len(firstName) > maxNameLen || len(lastName) > maxNameLen {
		return nil, fmt.Errorf("names must be at most %d characters: %w", maxNameLen, ErrInvalid)
	}
	user, err := s.repo.UpdateUserProfile(userID, firstName, lastName)
	if err != nil {
		return nil, err
	}
	s.cache.Delete(ctx, profileCacheKey(userID))
	return user, nil
}

// Register creates a new user with hashed password and returns the user with
// a fresh auth token
func (s *Service) Register(username, email, firstName, lastName, password string) (*models.User, string, error) {
	if username == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("username, email and password are required: %w", ErrInvalid)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", err
	}

	s.log.Infof("User logged in: %s", user.Email)
	return token, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
