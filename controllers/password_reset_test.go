package controllers

import (
	"net/http"
	"testing"
	"time"

	"dmed/models"
	"dmed/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetPasswordConsumesTokenAndRevokesSessions(t *testing.T) {
	database := setupTestDB(t)
	user := models.User{
		Name:     "Ana",
		Email:    "ana@dmed.gov.br",
		Password: encodePassword("ana@dmed.gov.br", "antiga1"),
		Status:   models.USER_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&user).Error)

	refresh, err := issueRefreshToken(database, user.ID, time.Now())
	require.NoError(t, err)

	exp := time.Now().Add(15 * time.Minute)
	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: tools.EncryptTextSHA512("123456"),
		Channel:   "email",
		ExpiresAt: &exp,
	}
	require.NoError(t, database.Create(&reset).Error)

	// check-token confirma sem consumir
	c, w := newTestContext(t, database, http.MethodPost, map[string]string{
		"email": user.Email, "token": "123456",
	})
	CheckResetToken(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	// troca a senha
	c, w = newTestContext(t, database, http.MethodPost, map[string]string{
		"email": user.Email, "token": "123456", "new_password": "nova-senha",
	})
	ResetPassword(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())

	var reloaded models.User
	require.NoError(t, database.First(&reloaded, user.ID).Error)
	assert.Equal(t, encodePassword(user.Email, "nova-senha"), reloaded.Password)

	// token consumido: segundo uso falha
	c, w = newTestContext(t, database, http.MethodPost, map[string]string{
		"email": user.Email, "token": "123456", "new_password": "outra-senha",
	})
	ResetPassword(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Body.String())

	// refresh tokens antigos morrem junto
	c, w = newTestContext(t, database, http.MethodPost, RefreshRequest{RefreshToken: refresh})
	Refresh(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	exp := time.Now().Add(-time.Minute)
	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: tools.EncryptTextSHA512("123456"),
		Channel:   "email",
		ExpiresAt: &exp,
	}
	require.NoError(t, database.Create(&reset).Error)

	c, w := newTestContext(t, database, http.MethodPost, map[string]string{
		"email": user.Email, "token": "123456", "new_password": "nova-senha",
	})
	ResetPassword(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", w.Body.String())
}

func TestForgotPasswordNeverLeaksAccountExistence(t *testing.T) {
	database := setupTestDB(t)

	c, w := newTestContext(t, database, http.MethodPost, map[string]string{
		"email": "ninguem@dmed.gov.br",
	})
	ForgotPasswordSendCode(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Body.String())
}

func TestForgotPasswordCreatesSingleActiveToken(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	for i := 0; i < 2; i++ {
		c, w := newTestContext(t, database, http.MethodPost, map[string]string{
			"email": user.Email,
		})
		ForgotPasswordSendCode(c)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, database.Model(&models.PasswordReset{}).
		Where("user_id = ? AND used_at IS NULL", user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
