package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mmcatalog/internal/domain"
	"mmcatalog/internal/repos"
)

var ErrBadCreds = errors.New("invalid username or password")

// UserStore is the slice of the Repository the auth flow needs.
type UserStore interface {
	User(id string) (*domain.User, error)
	UserByUsername(username string) (*domain.User, error)
	CreateUser(u domain.NewUser) (*domain.User, error)
}

type AuthService struct {
	Users  UserStore
	Tokens *TokenIssuer
}

func NewAuthService(users UserStore, tokens *TokenIssuer) *AuthService {
	return &AuthService{Users: users, Tokens: tokens}
}

// Login checks the password and returns a fresh admin token.
func (s *AuthService) Login(username, password string) (*domain.User, string, time.Time, error) {
	u, err := s.Users.UserByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if u == nil {
		return nil, "", time.Time{}, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", time.Time{}, ErrBadCreds
	}
	tok, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return u, tok, exp, nil
}

// CurrentUser resolves a token to its user. A valid token for a user that no
// longer exists is rejected.
func (s *AuthService) CurrentUser(token string) (*domain.User, error) {
	id, err := s.Tokens.Subject(token)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.User(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

// Register stores a new user with a bcrypt hash of password.
func (s *AuthService) Register(username, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.Users.CreateUser(domain.NewUser{Username: username, Password: string(hash)})
}

// EnsureAdmin creates the bootstrap admin account unless the username is
// already taken. Losing a creation race to another instance is fine.
func (s *AuthService) EnsureAdmin(username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	existing, err := s.Users.UserByUsername(username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	if _, err := s.Register(username, password); err != nil && !errors.Is(err, repos.ErrDuplicate) {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Printf("[auth] bootstrap admin %q created", username)
	return nil
}
