package services

import (
	"strconv"
	"testing"
	"time"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(username, role string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password-123",
		Role:     role,
		FullName: "Test " + username,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	resp, err := svc.Register(registerRequest("alice", models.RolePatient))
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)

	login, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: "password-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "bearer", login.TokenType)
	assert.Equal(t, resp.UserID, login.UserID)
	assert.Equal(t, models.RolePatient, login.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Register(registerRequest("alice", models.RolePatient))
	require.NoError(t, err)

	dup := registerRequest("alice", models.RolePatient)
	dup.Email = "other@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Register(registerRequest("alice", models.RolePatient))
	require.NoError(t, err)

	dup := registerRequest("alice2", models.RolePatient)
	dup.Email = "alice@example.com"
	_, err = svc.Register(dup)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	_, err := svc.Register(registerRequest("mallory", "superuser"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newTestDB(t), newTestConfig())

	req := registerRequest("alice", models.RolePatient)
	req.Password = "short"
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	_, err := svc.Register(registerRequest("alice", models.RolePatient))
	require.NoError(t, err)

	deactivated := createUser(t, db, "bob", models.RoleDoctor)
	require.NoError(t, db.Model(deactivated).Update("is_active", false).Error)

	cases := []dto.LoginRequest{
		{Username: "nobody", Password: "password-123"},
		{Username: "alice", Password: "wrong-password"},
		{Username: "bob", Password: "password-123"},
	}
	for _, req := range cases {
		_, err := svc.Login(&req)
		assert.ErrorIs(t, err, ErrInvalidCredentials, req.Username)
	}
}

func TestAccessTokenClaims(t *testing.T) {
	cfg := newTestConfig()
	svc := NewAuthService(newTestDB(t), cfg)

	resp, err := svc.Register(registerRequest("alice", models.RoleDoctor))
	require.NoError(t, err)

	login, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: "password-123"})
	require.NoError(t, err)

	token, err := jwt.Parse(login.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, strconv.FormatUint(uint64(resp.UserID), 10), claims["sub"])
	assert.Equal(t, models.RoleDoctor, claims["role"])

	exp := int64(claims["exp"].(float64))
	iat := int64(claims["iat"].(float64))
	assert.Equal(t, int64(cfg.JWTAccessExpiry.Seconds()), exp-iat)
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := newTestConfig()
	cfg.JWTAccessExpiry = -time.Minute
	svc := NewAuthService(newTestDB(t), cfg)

	_, err := svc.Register(registerRequest("alice", models.RolePatient))
	require.NoError(t, err)

	login, err := svc.Login(&dto.LoginRequest{Username: "alice", Password: "password-123"})
	require.NoError(t, err)

	_, err = jwt.Parse(login.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestResolveSubject(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	user := createUser(t, db, "alice", models.RolePatient)

	resolved, err := svc.ResolveSubject(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.ResolveSubject(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.ResolveSubject(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
