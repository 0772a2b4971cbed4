package controllers

import (
	"net/http"
	"testing"

	"dmed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkDemotionLeavingZeroAdminsIsRejected(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, database, "root", models.USER_ROLE_ADMIN)
	createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	c, w := newTestContext(t, database, http.MethodPatch, BulkRoleRequest{
		UserIDs: []int64{admin.ID},
		Role:    models.USER_ROLE_OPERATOR,
	})
	BulkUpdateUserRole(c)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	// nada mudou
	var reloaded models.User
	require.NoError(t, database.First(&reloaded, admin.ID).Error)
	assert.Equal(t, models.USER_ROLE_ADMIN, reloaded.Role)
}

func TestBulkDemotionWithRemainingAdminSucceeds(t *testing.T) {
	database := setupTestDB(t)
	admin1 := createTestUser(t, database, "root", models.USER_ROLE_ADMIN)
	admin2 := createTestUser(t, database, "vice", models.USER_ROLE_ADMIN)

	c, w := newTestContext(t, database, http.MethodPatch, BulkRoleRequest{
		UserIDs: []int64{admin1.ID},
		Role:    models.USER_ROLE_MANAGER,
	})
	BulkUpdateUserRole(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reloaded1, reloaded2 models.User
	require.NoError(t, database.First(&reloaded1, admin1.ID).Error)
	require.NoError(t, database.First(&reloaded2, admin2.ID).Error)
	assert.Equal(t, models.USER_ROLE_MANAGER, reloaded1.Role)
	assert.Equal(t, models.USER_ROLE_ADMIN, reloaded2.Role)
}

func TestBulkPromotionNeverHitsAdminGuard(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, database, "root", models.USER_ROLE_ADMIN)
	op := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	c, w := newTestContext(t, database, http.MethodPatch, BulkRoleRequest{
		UserIDs: []int64{admin.ID, op.ID},
		Role:    models.USER_ROLE_ADMIN,
	})
	BulkUpdateUserRole(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestDemoteLastAdminIsRejected(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, database, "root", models.USER_ROLE_ADMIN)

	c, w := newTestContext(t, database, http.MethodPatch, UpdateRoleRequest{Role: models.USER_ROLE_OPERATOR})
	setParamID(c, admin.ID)
	UpdateUserRole(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBlockLastAdminIsRejected(t *testing.T) {
	database := setupTestDB(t)
	admin := createTestUser(t, database, "root", models.USER_ROLE_ADMIN)

	c, w := newTestContext(t, database, http.MethodPatch, UpdateStatusRequest{Status: models.USER_STATUS_BLOCKED})
	setParamID(c, admin.ID)
	UpdateUserStatus(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBlockOperatorSucceeds(t *testing.T) {
	database := setupTestDB(t)
	createTestUser(t, database, "root", models.USER_ROLE_ADMIN)
	op := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	c, w := newTestContext(t, database, http.MethodPatch, UpdateStatusRequest{Status: models.USER_STATUS_BLOCKED})
	setParamID(c, op.ID)
	UpdateUserStatus(c)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.User
	require.NoError(t, database.First(&reloaded, op.ID).Error)
	assert.Equal(t, models.USER_STATUS_BLOCKED, reloaded.Status)
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	database := setupTestDB(t)
	createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	c, w := newTestContext(t, database, http.MethodPost, models.User{
		Name:     "Ana Clone",
		Email:    "ana@dmed.gov.br",
		Password: "123456",
	})
	CreateUser(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserHashesPasswordAndCreatesProfile(t *testing.T) {
	database := setupTestDB(t)

	c, w := newTestContext(t, database, http.MethodPost, models.User{
		Name:     "Carlos",
		Email:    "carlos@dmed.gov.br",
		Password: "123456",
		Profile:  &models.UserProfile{Department: "Protocolo", Room: "12"},
	})
	CreateUser(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.User
	require.NoError(t, database.Where("email = ?", "carlos@dmed.gov.br").First(&saved).Error)
	assert.NotEqual(t, "123456", saved.Password)
	assert.Equal(t, encodePassword(saved.Email, "123456"), saved.Password)

	var profile models.UserProfile
	require.NoError(t, database.Where("user_id = ?", saved.ID).First(&profile).Error)
	assert.Equal(t, "Protocolo", profile.Department)
}
