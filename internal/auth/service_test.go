package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rahulpatwa/community-events-backend/config"
)

func newTestAuthService(t *testing.T) Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&UserRole{}, &User{}))
	require.NoError(t, SeedUserRoles(db))

	cfg := &config.Config{
		JWTAccessSecret:    "test-access-secret",
		JWTRefreshSecret:   "test-refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
	return NewService(NewRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	err := svc.Register(RegisterInput{
		FullName: "Priya Sharma",
		Email:    "Priya@Example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	// email is normalized on the way in
	pair, user, err := svc.Login(LoginInput{Email: "priya@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, RoleMember, user.Role.RoleName)

	_, _, err = svc.Login(LoginInput{Email: "priya@example.com", Password: "wrong"})
	require.Error(t, err)
}

func TestRegisterAdminRejected(t *testing.T) {
	svc := newTestAuthService(t)

	err := svc.Register(RegisterInput{
		FullName: "Eve",
		Email:    "eve@example.com",
		Password: "pw",
		Role:     RoleAdmin,
	})
	require.Error(t, err)
}

func TestRegisterOrganizer(t *testing.T) {
	svc := newTestAuthService(t)

	err := svc.Register(RegisterInput{
		FullName: "Sam Lee",
		Email:    "sam@example.com",
		Password: "pw123456",
		Role:     RoleOrganizer,
	})
	require.NoError(t, err)

	_, user, err := svc.Login(LoginInput{Email: "sam@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, RoleOrganizer, user.Role.RoleName)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	svc := newTestAuthService(t)

	require.NoError(t, svc.Register(RegisterInput{
		FullName: "Priya Sharma",
		Email:    "priya@example.com",
		Password: "s3cret-pass",
	}))
	pair, _, err := svc.Login(LoginInput{Email: "priya@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	access, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	// an access token is not a valid refresh token
	_, err = svc.Refresh(pair.AccessToken)
	require.Error(t, err)
}
