// Package service holds the domain rules between the HTTP handlers and the repositories.
package service

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"

	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used for new accounts.
const PasswordCost = 10

// TokenIssuer signs access tokens for an account id.
type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Gravatar returns the avatar URL for email: 200px, pg rated, mystery-man fallback.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return fmt.Sprintf("//www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", sum)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns a signed token for it. All field
// failures are reported together.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)

	var fields []models.FieldError
	if name == "" {
		fields = append(fields, models.FieldError{Msg: "Name is required", Param: "name"})
	}
	if validation.ValidateEmail(email) != nil {
		fields = append(fields, models.FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		fields = append(fields, models.FieldError{Msg: err.Error(), Param: "password"})
	}
	if len(fields) > 0 {
		return "", models.NewFieldErrors(fields)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewDuplicateAccountError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), PasswordCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Avatar:   Gravatar(email),
	}
	// A concurrent registration can still win the unique index here.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.issue(user.ID)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, error) {
	email := normalizeEmail(in.Email)

	var fields []models.FieldError
	if validation.ValidateEmail(email) != nil {
		fields = append(fields, models.FieldError{Msg: "Please include a valid email", Param: "email"})
	}
	if in.Password == "" {
		fields = append(fields, models.FieldError{Msg: "Password is required", Param: "password"})
	}
	if len(fields) > 0 {
		return "", models.NewFieldErrors(fields)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return "", models.NewInvalidCredentialsError()
	}

	return s.issue(user.ID)
}

// CurrentUser loads the account behind a verified token.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issue(userID uint) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}
