package controllers

import (
	"net/http"
	"testing"
	"time"

	"dmed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndTokenRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	user := models.User{
		Name:     "Ana",
		Email:    "ana@dmed.gov.br",
		Password: encodePassword("ana@dmed.gov.br", "123456"),
		Role:     models.USER_ROLE_OPERATOR,
		Status:   models.USER_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&user).Error)

	c, w := newTestContext(t, database, http.MethodPost, LoginRequest{
		Email:    "ana@dmed.gov.br",
		Password: "123456",
	})
	Login(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Empty(t, resp.User.Password)

	claims, ok := parseAndVerifyJWT(resp.Token, getJWTSecret())
	require.True(t, ok)
	assert.Equal(t, user.ID, claims.Sub)
	assert.Greater(t, claims.Exp, time.Now().Unix())
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	database := setupTestDB(t)
	user := models.User{
		Name:     "Ana",
		Email:    "ana@dmed.gov.br",
		Password: encodePassword("ana@dmed.gov.br", "123456"),
		Status:   models.USER_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&user).Error)

	c, w := newTestContext(t, database, http.MethodPost, LoginRequest{
		Email:    "ana@dmed.gov.br",
		Password: "errada",
	})
	Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsBlockedUser(t *testing.T) {
	database := setupTestDB(t)
	user := models.User{
		Name:     "Ana",
		Email:    "ana@dmed.gov.br",
		Password: encodePassword("ana@dmed.gov.br", "123456"),
		Status:   models.USER_STATUS_BLOCKED,
	}
	require.NoError(t, database.Create(&user).Error)

	c, w := newTestContext(t, database, http.MethodPost, LoginRequest{
		Email:    "ana@dmed.gov.br",
		Password: "123456",
	})
	Login(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshRotatesTokens(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	first, err := issueRefreshToken(database, user.ID, time.Now())
	require.NoError(t, err)

	c, w := newTestContext(t, database, http.MethodPost, RefreshRequest{RefreshToken: first})
	Refresh(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp RefreshResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, first, resp.RefreshToken)

	// o token antigo foi revogado: segundo uso falha
	c, w = newTestContext(t, database, http.MethodPost, RefreshRequest{RefreshToken: first})
	Refresh(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignAndVerifyJWT(t *testing.T) {
	token, err := signHS256JWT("segredo", map[string]any{
		"sub": int64(7),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	claims, ok := parseAndVerifyJWT(token, "segredo")
	require.True(t, ok)
	assert.Equal(t, int64(7), claims.Sub)

	_, ok = parseAndVerifyJWT(token, "outro-segredo")
	assert.False(t, ok)
}
