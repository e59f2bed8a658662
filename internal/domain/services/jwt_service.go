package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/config"
	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/infrastructure/metrics"
	Logger "github.com/iamstorage888/Caridad-BPS-Final-1-sub000/pkg/logger"
)

// InterfaceJWTService defines the sign-in and session service interface
type InterfaceJWTService interface {
	GenerateToken(session *Session) (string, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
	Login(ctx context.Context, actor Actor, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, tokenString string) error
	Authenticate(ctx context.Context, tokenString string) (*Principal, error)
}

// LoginResult is returned by a successful sign-in
type LoginResult struct {
	Token     string      `json:"token"`
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Principal is the authenticated caller of a request. Role comes from the
// users table, not from the token.
type Principal struct {
	UserID    uint        `json:"user_id"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	SessionID string      `json:"-"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// JWTClaims are the signed claims of a session token. The registered ID
// claim carries the session id.
type JWTClaims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService signs session tokens and checks them against the session store
// and the users table
type JWTService struct {
	secretKey string
	issuer    string
	ttl       time.Duration
	DB        *gorm.DB
	Sessions  InterfaceSessionStore
	Logs      InterfaceOperationLogService
	Metrics   *metrics.Metrics
	now       func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg *config.Config, db *gorm.DB, sessions InterfaceSessionStore, logs InterfaceOperationLogService, m *metrics.Metrics) InterfaceJWTService {
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "caridad-bps",
		ttl:       cfg.SessionTTL,
		DB:        db,
		Sessions:  sessions,
		Logs:      logs,
		Metrics:   m,
		now:       time.Now,
	}
}

// 1 GenerateToken signs a token for session
func (s *JWTService) GenerateToken(session *Session) (string, error) {
	claims := &JWTClaims{
		UserID: session.UserID,
		Role:   session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   session.Username,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			NotBefore: jwt.NewNumericDate(session.IssuedAt),
			Issuer:    s.issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

// 2 ExtractClaims verifies the signature and expiry of a token
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}
	if claims.ID == "" || claims.Issuer != s.issuer {
		return nil, ErrSessionInvalid
	}
	return claims, nil
}

// 3 Login checks the credentials and opens a session
func (s *JWTService) Login(ctx context.Context, actor Actor, username, password string) (*LoginResult, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.Metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(password, user.Password) {
		s.Metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}
	if user.Status != models.UserStatusActive {
		s.Metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		return nil, ErrUserInactive
	}

	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.GenerateToken(session)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	if err := s.DB.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		Logger.Warning("failed to stamp last login of user %d: %v", user.ID, err)
	}
	s.Metrics.LoginAttempts.WithLabelValues("success").Inc()
	actor.UserID = user.ID
	s.Logs.Record(ctx, actor, models.OpUserLogin, user.ID, user.Username, true)

	return &LoginResult{
		Token:     token,
		UserID:    user.ID,
		Role:      user.Role,
		Username:  user.Username,
		FullName:  user.FullName,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// 4 Logout revokes the session behind tokenString
func (s *JWTService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, claims.ID)
}

// 5 Authenticate resolves the caller of a request. The token must verify,
// its session must exist and be unexpired, and the account must still be
// active; the role is read from the account.
func (s *JWTService) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return nil, err
	}
	session, err := s.Sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if session.Expired(s.now()) || session.UserID != claims.UserID {
		return nil, ErrSessionInvalid
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrUserInactive
	}

	return &Principal{
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func logRevokeFailure(userID uint, err error) {
	Logger.Warning("failed to revoke sessions of user %d: %v", userID, err)
}
