package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iamstorage888/Caridad-BPS-Final-1-sub000/internal/domain/models"
)

type authFixture struct {
	db       *gorm.DB
	sessions InterfaceSessionStore
	jwt      *JWTService
	users    InterfaceUserService
	clock    time.Time
}

func newAuthFixture(t *testing.T, sessions InterfaceSessionStore) *authFixture {
	t.Helper()
	db := openTestDB(t)
	cfg := testConfig()
	f := &authFixture{db: db, sessions: sessions, clock: time.Now()}
	f.jwt = NewJWTService(cfg, db, sessions, NewOperationLogService(db, cfg), testMetrics()).(*JWTService)
	f.jwt.now = func() time.Time { return f.clock }
	f.users = NewUserService(db, cfg, sessions)
	return f
}

func (f *authFixture) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()
	user, err := f.users.CreateUser(context.Background(), CreateUserInput{Username: username, Password: "password123", Role: role})
	require.NoError(t, err)
	return user
}

func TestLoginAndAuthenticate(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()
	user := f.createUser(t, "secretary1", models.RoleSecretary)

	result, err := f.jwt.Login(ctx, Actor{IP: "10.0.0.5"}, "secretary1", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, models.RoleSecretary, result.Role)
	assert.NotEmpty(t, result.Token)

	principal, err := f.jwt.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, models.RoleSecretary, principal.Role)

	var logs []models.OperationLog
	require.NoError(t, f.db.Where("operation_type = ?", models.OpUserLogin).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "10.0.0.5", logs[0].IPAddress)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.jwt.Metrics.LoginAttempts.WithLabelValues("success")))

	stored, err := f.users.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()
	f.createUser(t, "staff1", models.RoleStaff)

	_, err := f.jwt.Login(ctx, Actor{}, "staff1", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.jwt.Login(ctx, Actor{}, "nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()
	user := f.createUser(t, "staff2", models.RoleStaff)
	inactive := models.UserStatusInactive
	_, err := f.users.UpdateUser(ctx, user.ID, UpdateUserInput{Status: &inactive})
	require.NoError(t, err)

	_, err = f.jwt.Login(ctx, Actor{}, "staff2", "password123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()
	f.createUser(t, "admin1", models.RoleAdmin)
	result, err := f.jwt.Login(ctx, Actor{}, "admin1", "password123")
	require.NoError(t, err)

	require.NoError(t, f.jwt.Logout(ctx, result.Token))

	_, err = f.jwt.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthenticateReadsRoleFromUsersTable(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()
	user := f.createUser(t, "clerk", models.RoleSecretary)
	result, err := f.jwt.Login(ctx, Actor{}, "clerk", "password123")
	require.NoError(t, err)

	// a direct demotion, bypassing the service, is seen on the next request
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", user.ID).Update("role", models.RoleStaff).Error)

	principal, err := f.jwt.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, principal.Role)
}

func TestRoleChangeThroughServiceRevokesSessions(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()
	user := f.createUser(t, "clerk2", models.RoleSecretary)
	result, err := f.jwt.Login(ctx, Actor{}, "clerk2", "password123")
	require.NoError(t, err)

	role := models.RoleStaff
	_, err = f.users.UpdateUser(ctx, user.ID, UpdateUserInput{Role: &role})
	require.NoError(t, err)

	_, err = f.jwt.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthenticateRejectsExpiredSession(t *testing.T) {
	store := NewMemorySessionStore()
	f := newAuthFixture(t, store)
	ctx := context.Background()
	f.createUser(t, "admin2", models.RoleAdmin)
	result, err := f.jwt.Login(ctx, Actor{}, "admin2", "password123")
	require.NoError(t, err)

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	f.clock = f.clock.Add(2 * time.Hour)

	_, err = f.jwt.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestAuthenticateRejectsForeignTokens(t *testing.T) {
	f := newAuthFixture(t, NewMemorySessionStore())
	ctx := context.Background()

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: 1,
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "made-up",
			Issuer:    "caridad-bps",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	other, err := forged.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = f.jwt.Authenticate(ctx, other)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// correctly signed, but no such session
	signed, err := forged.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = f.jwt.Authenticate(ctx, signed)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = f.jwt.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func newMiniredisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &RedisSessionStore{Client: client}, mr
}

func TestRedisSessionStore(t *testing.T) {
	store, mr := newMiniredisStore(t)
	ctx := context.Background()
	now := time.Now()

	session := &Session{ID: "abc", UserID: 7, Username: "clerk", Role: models.RoleSecretary, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Save(ctx, session))
	require.NoError(t, store.Ping(ctx))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, models.RoleSecretary, got.Role)
	assert.True(t, mr.Exists("session:abc"))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("session:abc").Seconds(), 5)

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionStore_DeleteByUser(t *testing.T) {
	store, _ := newMiniredisStore(t)
	ctx := context.Background()
	now := time.Now()
	for _, id := range []string{"s1", "s2"} {
		require.NoError(t, store.Save(ctx, &Session{ID: id, UserID: 3, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))
	}
	require.NoError(t, store.Save(ctx, &Session{ID: "other", UserID: 4, IssuedAt: now, ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, store.DeleteByUser(ctx, 3))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "s2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Get(ctx, "other")
	assert.NoError(t, err)
}

func TestRedisSessionStore_RejectsExpired(t *testing.T) {
	store, _ := newMiniredisStore(t)
	err := store.Save(context.Background(), &Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLoginWithRedisSessions(t *testing.T) {
	store, mr := newMiniredisStore(t)
	f := newAuthFixture(t, store)
	ctx := context.Background()
	f.createUser(t, "admin3", models.RoleAdmin)

	result, err := f.jwt.Login(ctx, Actor{}, "admin3", "password123")
	require.NoError(t, err)
	claims, err := f.jwt.ExtractClaims(result.Token)
	require.NoError(t, err)
	assert.True(t, mr.Exists("session:"+claims.ID))

	principal, err := f.jwt.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)
}

func TestNewSessionStore(t *testing.T) {
	cfg := testConfig()
	_, ok := NewSessionStore(cfg).(*MemorySessionStore)
	assert.True(t, ok)

	cfg.RedisHost = "localhost"
	cfg.RedisPort = "6379"
	_, ok = NewSessionStore(cfg).(*RedisSessionStore)
	assert.True(t, ok)
}
