package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

var ErrInvalidPassword = apperr.InvalidCredential("Invalid password")

type Service struct {
	users     *user.Repository
	tokens    *TokenIssuer
	clock     utils.Clock
	publisher events.Publisher
	hashCost  int
}

func NewService(users *user.Repository, tokens *TokenIssuer, clock utils.Clock, publisher events.Publisher) *Service {
	return &Service{users: users, tokens: tokens, clock: clock, publisher: publisher, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost.
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	username := strings.TrimSpace(in.Username)
	email := user.NormalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("Invalid email")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation("Password is too long")
	}
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	now := s.clock.NowUtc()
	u := &user.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.users.LoadRelations(ctx, u); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, events.Event{Type: events.UserRegistered, ActorID: u.ID, SubjectID: u.ID, At: now})
	return u, nil
}

// Login checks the password and returns a fresh token. Accounts created through
// OAuth have no password and always fail here.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if u.PasswordHash == user.OAuthPasswordSentinel {
		return "", nil, ErrInvalidPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidPassword
	}
	return s.session(ctx, u)
}

// OAuthLogin finds the user by the provider email, creating it on first login.
func (s *Service) OAuthLogin(ctx context.Context, p Profile) (string, *user.User, error) {
	u, err := s.users.FindByEmail(ctx, p.Email)
	if apperr.Is(err, apperr.KindNotFound) {
		u, err = s.createOAuthUser(ctx, p)
	}
	if err != nil {
		return "", nil, err
	}
	return s.session(ctx, u)
}

func (s *Service) createOAuthUser(ctx context.Context, p Profile) (*user.User, error) {
	username := strings.TrimSpace(p.Name)
	if username == "" {
		username, _, _ = strings.Cut(user.NormalizeEmail(p.Email), "@")
	}
	now := s.clock.NowUtc()
	u := &user.User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          p.Email,
		PasswordHash:   user.OAuthPasswordSentinel,
		ProfilePicture: p.Picture,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := s.users.Create(ctx, u)
	if apperr.Is(err, apperr.KindValidation) {
		// Created concurrently by another callback.
		return s.users.FindByEmail(ctx, p.Email)
	}
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, s.publisher, events.Event{Type: events.UserRegistered, ActorID: u.ID, SubjectID: u.ID, At: now})
	return u, nil
}

func (s *Service) session(ctx context.Context, u *user.User) (string, *user.User, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, err
	}
	if err := s.users.LoadRelations(ctx, u); err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Verify returns the user id carried by a bearer token.
func (s *Service) Verify(token string) (string, error) {
	return s.tokens.Verify(token)
}
