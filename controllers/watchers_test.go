package controllers

import (
	"net/http"
	"testing"

	"dmed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLetterIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)
	letter := createTestLetter(t, database, "L-001", models.LETTER_STATUS_NEW, user.ID)

	for i := 0; i < 2; i++ {
		c, w := newTestContext(t, database, http.MethodPost, nil)
		setParamID(c, letter.ID)
		SetUserLogged(c, user)
		WatchLetter(c)
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, database.Model(&models.Watcher{}).
		Where("letter_id = ? AND user_id = ?", letter.ID, user.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnwatchLetterRemovesSubscription(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)
	letter := createTestLetter(t, database, "L-001", models.LETTER_STATUS_NEW, user.ID)
	require.NoError(t, database.Create(&models.Watcher{LetterID: letter.ID, UserID: user.ID}).Error)

	c, w := newTestContext(t, database, http.MethodDelete, nil)
	setParamID(c, letter.ID)
	SetUserLogged(c, user)
	UnwatchLetter(c)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, database.Model(&models.Watcher{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestFavoritesListOnlyOwnLetters(t *testing.T) {
	database := setupTestDB(t)
	ana := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)
	bia := createTestUser(t, database, "bia", models.USER_ROLE_OPERATOR)
	l1 := createTestLetter(t, database, "L-001", models.LETTER_STATUS_NEW, ana.ID)
	l2 := createTestLetter(t, database, "L-002", models.LETTER_STATUS_NEW, ana.ID)

	require.NoError(t, database.Create(&models.Favorite{LetterID: l1.ID, UserID: ana.ID}).Error)
	require.NoError(t, database.Create(&models.Favorite{LetterID: l2.ID, UserID: bia.ID}).Error)

	c, w := newTestContext(t, database, http.MethodGet, nil)
	SetUserLogged(c, ana)
	GetMyFavorites(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Letters []models.Letter `json:"letters"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Letters, 1)
	assert.Equal(t, l1.ID, resp.Letters[0].ID)
}

func TestAddTagToLetterIsIdempotent(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)
	letter := createTestLetter(t, database, "L-001", models.LETTER_STATUS_NEW, user.ID)
	tag := models.Tag{Name: "urgente", Color: "#ff0000"}
	require.NoError(t, database.Create(&tag).Error)

	for i := 0; i < 2; i++ {
		c, w := newTestContext(t, database, http.MethodPost, LetterTagRequest{LetterID: letter.ID, TagID: tag.ID})
		AddTagToLetter(c)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	var count int64
	require.NoError(t, database.Model(&models.LetterTag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// desvincula
	c, w := newTestContext(t, database, http.MethodDelete, LetterTagRequest{LetterID: letter.ID, TagID: tag.ID})
	RemoveTagFromLetter(c)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, database.Model(&models.LetterTag{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
