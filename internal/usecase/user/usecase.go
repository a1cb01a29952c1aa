package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-registration-service/internal/domain/user"
	pkgerrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/logger"
)

// Messages returned to API clients for the fixed error outcomes
const (
	MsgUserExists   = "User with the same email or username already exists"
	MsgUserNotFound = "User not found"
)

// Repository defines the interface for user data access operations.
type Repository interface {
	Create(ctx context.Context, u *domain.User) error                                        // Create a new user and assign its ID
	GetByID(ctx context.Context, id string) (*domain.User, error)                            // Retrieve user by ID, domain.ErrNotFound if absent
	GetForUpdate(ctx context.Context, id string) (*domain.User, error)                       // Like GetByID but always read from storage
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) // First user matching either value, nil if none
	Update(ctx context.Context, u *domain.User) error                                        // Persist every field of an existing user
	Delete(ctx context.Context, id string) (*domain.User, error)                             // Remove user by ID and return its prior state
	List(ctx context.Context) ([]domain.User, error)                                         // All users in storage order
}

// Service implements the user directory on top of a Repository.
type Service struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a new user directory service.
func New(r Repository, log *zap.Logger) *Service {
	return &Service{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return pkgerrors.WrapValidationError(err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return pkgerrors.NewValidationError("", "User validation failed: "+strings.Join(messages, ", "))
}

// CreateUser registers a new user. Email and username uniqueness is checked
// before anything is written.
func (s *Service) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("creating user", zap.String("email", in.Email), zap.String("username", in.Username))

	existing, err := s.repo.FindByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		log.Error("failed to check existing user", zap.Error(err))
		return nil, pkgerrors.WrapValidationError(err)
	}
	if existing != nil {
		log.Warn("user already exists",
			zap.String("email", in.Email),
			zap.String("username", in.Username),
			zap.String("existing_id", existing.ID),
		)
		return nil, pkgerrors.NewAlreadyExistsError("user", MsgUserExists)
	}

	if err := s.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := &domain.User{
		Name:           in.Name,
		Email:          in.Email,
		Username:       in.Username,
		Contact:        in.Contact,
		ProfilePicture: in.ProfilePicture,
	}

	// A concurrent registration can still trip the unique index here
	if err := s.repo.Create(ctx, u); err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.WrapValidationError(err)
	}

	log.Info("user created", zap.String("id", u.ID), zap.Bool("has_picture", u.HasPicture()))
	return toDTO(u), nil
}

// ListUsers returns every user, unfiltered.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	domainUsers, err := s.repo.List(ctx)
	if err != nil {
		logger.WithContext(ctx, s.log).Error("failed to list users", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	users := make([]User, len(domainUsers))
	for i := range domainUsers {
		users[i] = *toDTO(&domainUsers[i])
	}
	return users, nil
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("user", MsgUserNotFound)
		}
		logger.WithContext(ctx, s.log).Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}
	return toDTO(u), nil
}

// UpdateUser overwrites the fields present in the request. Uniqueness of
// email and username is not re-checked here; the storage unique index is
// the only guard on update.
func (s *Service) UpdateUser(ctx context.Context, in UpdateUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("updating user", zap.String("id", in.ID))

	// A cached copy may predate the last write; every column is written back below
	u, err := s.repo.GetForUpdate(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("user not found for update", zap.String("id", in.ID))
			return nil, pkgerrors.NewNotFoundError("user", MsgUserNotFound)
		}
		log.Error("failed to load user for update", zap.String("id", in.ID), zap.Error(err))
		return nil, pkgerrors.WrapValidationError(err)
	}

	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Contact != "" {
		u.Contact = in.Contact
	}
	if in.ProfilePicture != nil {
		u.ProfilePicture = in.ProfilePicture
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, pkgerrors.NewNotFoundError("user", MsgUserNotFound)
		}
		log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
		return nil, pkgerrors.WrapValidationError(err)
	}

	return toDTO(u), nil
}

// DeleteUser removes a user and returns its state before removal.
func (s *Service) DeleteUser(ctx context.Context, in DeleteUserRequest) (*User, error) {
	log := logger.WithContext(ctx, s.log)
	log.Info("deleting user", zap.String("id", in.ID))

	u, err := s.repo.Delete(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("user not found for delete", zap.String("id", in.ID))
			return nil, pkgerrors.NewNotFoundError("user", MsgUserNotFound)
		}
		log.Error("failed to delete user", zap.String("id", in.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to delete user", err)
	}

	return toDTO(u), nil
}
