package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tactache/tactache-api/internal/models"
	"github.com/tactache/tactache-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired   = newError(KindValidation, "username is required")
	ErrUsernameLength     = newError(KindValidation, "username must be between 3 and 50 characters")
	ErrEmailRequired      = newError(KindValidation, "email is required")
	ErrInvalidEmail       = newError(KindValidation, "email is not a valid address")
	ErrPasswordTooShort   = newError(KindValidation, "password must be at least 6 characters")
	ErrCredentialsMissing = newError(KindValidation, "username or email and password are required")
	ErrUserExists         = newError(KindConflict, "username or email already exists")
	ErrInvalidCredentials = newError(KindInvalidCredentials, "invalid username or password")
	ErrUserNotFound       = newError(KindNotFound, "user not found")
)

var validate = validator.New()

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"min=6"`
	// Role yields a manager only when it is exactly "manager".
	Role string
}

// Register creates a new user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateRegister(input); err != nil {
		return nil, err
	}
	username, email := input.Username, input.Email

	taken, err := s.userRepo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, storageError("check username", err)
	}
	if taken {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageError("hash password", err)
	}

	role := models.RoleCollaborator
	if models.Role(strings.TrimSpace(input.Role)) == models.RoleManager {
		role = models.RoleManager
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storageError("create user", err)
	}

	return user, nil
}

// validateRegister maps the first failing field to its sentinel.
func validateRegister(input RegisterInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return newError(KindValidation, err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Field() {
	case "Username":
		if fe.Tag() == "required" {
			return ErrUsernameRequired
		}
		return ErrUsernameLength
	case "Email":
		if fe.Tag() == "required" {
			return ErrEmailRequired
		}
		return ErrInvalidEmail
	default:
		return ErrPasswordTooShort
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	// Identifier is a username or an email address.
	Identifier string
	Password   string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, ErrCredentialsMissing
	}

	user, err := s.userRepo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}

	return user, nil
}

// ListUsers returns every user, ordered by username.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storageError("list users", err)
	}
	return users, nil
}
