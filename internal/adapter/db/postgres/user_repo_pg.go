package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-registration-service/internal/domain/user"
)

// UserRepoPG implements the user Repository on top of GORM. It is used with
// PostgreSQL in production and SQLite locally and in tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)"` // Server-generated UUID
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"not null;uniqueIndex"`
	Username       string    `gorm:"not null;uniqueIndex"`
	Contact        string    `gorm:"not null"`
	ProfilePicture *string   // Stored-object name, NULL when no picture was uploaded
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// BeforeCreate assigns the identifier when the caller did not.
func (s *UserSchema) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// AutoMigrate creates or updates the users table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserSchema{})
}

func toSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		Contact:        u.Contact,
		ProfilePicture: u.ProfilePicture,
	}
}

func (s *UserSchema) toDomain() *user.User {
	return &user.User{
		ID:             s.ID,
		Name:           s.Name,
		Email:          s.Email,
		Username:       s.Username,
		Contact:        s.Contact,
		ProfilePicture: s.ProfilePicture,
	}
}

// Create inserts a new user and writes the generated ID back into u.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := toSchema(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = model.ID
	r.log.Info("user created in db", zap.String("id", model.ID))
	return nil
}

// Update overwrites every mutable column of an existing user.
func (r *UserRepoPG) Update(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	// A map keeps a nil profile picture in the statement instead of skipping it
	result := r.db.WithContext(ctx).Model(&UserSchema{ID: u.ID}).Updates(map[string]any{
		"name":            u.Name,
		"email":           u.Email,
		"username":        u.Username,
		"contact":         u.Contact,
		"profile_picture": u.ProfilePicture,
	})
	if result.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(result.Error), zap.String("id", u.ID))
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrNotFound
	}

	r.log.Info("user updated in db", zap.String("id", u.ID))
	return nil
}

// Delete removes a user by ID and returns the row as it was before removal.
func (r *UserRepoPG) Delete(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&model).Error; err != nil {
			return err
		}
		result := tx.Delete(&UserSchema{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found for delete", zap.String("id", id))
			return nil, user.ErrNotFound
		}
		r.log.Error("failed to delete user in db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	r.log.Info("user deleted in db", zap.String("id", id))
	return model.toDomain(), nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.String("id", id))
			return nil, user.ErrNotFound
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model.toDomain(), nil
}

// GetForUpdate reads the current row for a read-modify-write. The
// database is the source of truth, so this is GetByID.
func (r *UserRepoPG) GetForUpdate(ctx context.Context, id string) (*user.User, error) {
	return r.GetByID(ctx, id)
}

// FindByEmailOrUsername returns the first user whose email or username
// matches, or nil when there is none.
func (r *UserRepoPG) FindByEmailOrUsername(ctx context.Context, email, username string) (*user.User, error) {
	var model UserSchema
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to find user by email or username", zap.Error(err),
			zap.String("email", email), zap.String("username", username))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return model.toDomain(), nil
}

// List retrieves every user in insertion order.
func (r *UserRepoPG) List(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i := range models {
		users[i] = *models[i].toDomain()
	}

	return users, nil
}
