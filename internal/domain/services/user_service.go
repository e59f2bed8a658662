package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/rules"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
)

// MinPasswordLength is the shortest accepted account password
const MinPasswordLength = 8

// CreateUserInput is the body of a new account
type CreateUserInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Role     models.Role
}

// UpdateUserInput changes the non-nil fields of an account
type UpdateUserInput struct {
	FullName *string
	Email    *string
	Role     *models.Role
	Status   *models.UserStatus
	Password *string
}

// InterfaceUserService defines the portal account service interface
type InterfaceUserService interface {
	CheckPassword(password, hash string) bool
	GetAllUsers(ctx context.Context, q models.PaginationQuery, search string) ([]models.User, int64, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, actor Actor, id uint) error
}

// UserService manages portal accounts
type UserService struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions InterfaceSessionStore
}

// NewUserService creates a new user service. Sessions of deactivated or
// deleted accounts are revoked through sessions.
func NewUserService(db *gorm.DB, cfg *config.Config, sessions InterfaceSessionStore) InterfaceUserService {
	return &UserService{
		DB:       db,
		Config:   cfg,
		Sessions: sessions,
	}
}

// HashPassword bcrypt-hashes a plain password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// 1 CheckPassword reports whether password matches hash
func (s *UserService) CheckPassword(password, hash string) bool {
	return checkPassword(password, hash)
}

// 2 GetAllUsers lists accounts, optionally matching username, name or email
func (s *UserService) GetAllUsers(ctx context.Context, q models.PaginationQuery, search string) ([]models.User, int64, error) {
	q = q.Normalize()
	query := s.DB.WithContext(ctx).Model(&models.User{})
	if strings.TrimSpace(search) != "" {
		p := likePattern(search)
		query = query.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", p, p, p)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	if err := query.Order("id ASC").Offset(q.Offset()).Limit(q.PageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// 3 GetUserByID loads one account
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// 4 GetUserByUsername loads one account by its sign-in name
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// 5 CreateUser validates and stores a new active account
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	errs := rules.ValidationErrors{}
	if input.Username == "" {
		errs["username"] = "username is required"
	}
	if len(input.Password) < MinPasswordLength {
		errs["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
	}
	if input.Role == "" {
		input.Role = models.RoleStaff
	}
	if !input.Role.Valid() {
		errs["role"] = "role must be admin, secretary or staff"
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: input.Username,
		Password: hashed,
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.TrimSpace(input.Email),
		Role:     input.Role,
		Status:   models.UserStatusActive,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: username %q is taken", ErrConflict, input.Username)
		}
		return nil, err
	}
	return user, nil
}

// 6 UpdateUser applies the non-nil fields. Changing the role, status or
// password revokes the account's sessions.
func (s *UserService) UpdateUser(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	errs := rules.ValidationErrors{}
	revoke := false
	if input.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil && *input.Role != user.Role {
		if !input.Role.Valid() {
			errs["role"] = "role must be admin, secretary or staff"
		}
		updates["role"] = *input.Role
		revoke = true
	}
	if input.Status != nil && *input.Status != user.Status {
		if *input.Status != models.UserStatusActive && *input.Status != models.UserStatusInactive {
			errs["status"] = "status must be active or inactive"
		}
		updates["status"] = *input.Status
		revoke = true
	}
	if input.Password != nil {
		if len(*input.Password) < MinPasswordLength {
			errs["password"] = fmt.Sprintf("password must be at least %d characters", MinPasswordLength)
		} else {
			hashed, err := HashPassword(*input.Password)
			if err != nil {
				return nil, err
			}
			updates["password"] = hashed
			revoke = true
		}
	}
	if err := invalid(errs); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	if revoke {
		s.revokeSessions(ctx, id)
	}
	return s.GetUserByID(ctx, id)
}

// 7 DeleteUser removes an account other than the actor's own
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id uint) error {
	if actor.UserID == id {
		return ErrSelfDelete
	}
	result := s.DB.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	s.revokeSessions(ctx, id)
	return nil
}

func (s *UserService) revokeSessions(ctx context.Context, userID uint) {
	if s.Sessions == nil {
		return
	}
	// sessions are re-validated against the users table anyway
	if err := s.Sessions.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		logRevokeFailure(userID, err)
	}
}
