package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for every login failure. Callers cannot
// tell an unknown email apart from a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration, login and session token validation.
type AuthService struct {
	userRepo      repositories.UserRepository
	sessionSecret []byte
	tokenDurat    time.Duration // Duration for which a session token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, sessionSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionSecret: []byte(sessionSecret),
		tokenDurat:    24 * time.Hour, // Session valid for 24 hours
	}
}

// Register hashes the password and stores a new user. Duplicate emails are
// accepted; lookups take the first match. Registration does not log the user
// in.
func (s *AuthService) Register(name string, dob time.Time, email, rawPassword string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		DOB:      dob,
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials against the first user matching the email
// and mints a signed session token on success.
func (s *AuthService) Login(email, rawPassword string) (string, error) {
	user, err := s.userRepo.GetFirstByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rawPassword)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.New().String(),
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.sessionSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses a session token and returns the user id it carries.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.sessionSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid session token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid session token: missing user_id")
	}
	return uint(id), nil
}

// CurrentUser resolves a session token into the user it was issued for.
func (s *AuthService) CurrentUser(tokenString string) (*models.User, error) {
	id, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(id)
}
