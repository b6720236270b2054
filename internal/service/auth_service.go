package service

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer     = "meal-planner"
	demoEmailDomain = "demo.meal-planner.local"
	minPasswordLen  = 6
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	// Demo creates an anonymous account seeded with demo meals and logs it in.
	Demo(ctx context.Context) (token string, user *domain.User, err error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	SetReminder(ctx context.Context, id string, reminder domain.Reminder) (*domain.User, error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	meals         MealService
	jwtSecret     string
	jwtExpiration time.Duration
	logger        *zap.Logger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, meals MealService, jwtSecret string, jwtExpiration time.Duration, logger *zap.Logger) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 1
	}
	return &authService{
		userRepo:      userRepo,
		meals:         meals,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		logger:        logger,
	}
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return s.createUser(ctx, email, password, false)
}

func (s *authService) createUser(ctx context.Context, email, password string, isDemo bool) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		IsDemo:       isDemo,
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Unique index caught a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	user.ID = userID
	user.PasswordHash = ""
	return user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (token string, user *domain.User, err error) {
	if email == "" || password == "" {
		err = errors.New("email and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed
		}
		return "", nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err = s.generateJWT(user.ID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, user, nil
}

func (s *authService) Demo(ctx context.Context) (string, *domain.User, error) {
	id := uuid.NewString()
	email := "demo-" + id[:8] + "@" + demoEmailDomain
	user, err := s.createUser(ctx, email, uuid.NewString(), true)
	if err != nil {
		return "", nil, err
	}

	// A demo account without meals is still usable.
	if _, err := s.meals.SeedDemoMeals(ctx, user.ID); err != nil {
		s.logger.Warn("failed to seed demo account", zap.String("userId", user.ID), zap.Error(err))
	}

	token, err := s.generateJWT(user.ID)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	return token, user, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// SetReminder validates and stores the weekly reminder preference.
func (s *authService) SetReminder(ctx context.Context, id string, reminder domain.Reminder) (*domain.User, error) {
	switch {
	case reminder.Weekday < 0 || reminder.Weekday > 6:
		return nil, fmt.Errorf("%w: weekday must be 0-6", ErrInvalidReminder)
	case reminder.Hour < 0 || reminder.Hour > 23:
		return nil, fmt.Errorf("%w: hour must be 0-23", ErrInvalidReminder)
	case reminder.Minute < 0 || reminder.Minute > 59:
		return nil, fmt.Errorf("%w: minute must be 0-59", ErrInvalidReminder)
	case reminder.Enabled && strings.TrimSpace(reminder.PushToken) == "":
		return nil, fmt.Errorf("%w: push token required when enabled", ErrInvalidReminder)
	}

	if err := s.userRepo.SetReminder(ctx, id, &reminder); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (s *authService) generateJWT(userID string) (string, error) {
	now := time.Now()
	claims := &jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
