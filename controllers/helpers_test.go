package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.LogMode(false)
	dbpkg.AutoMigrate(database)
	t.Cleanup(func() { database.Close() })
	return database
}

// newTestContext monta um contexto gin com db + request prontos.
// body != nil vira JSON no corpo.
func newTestContext(t *testing.T, database *gorm.DB, method string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, "/", reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	c.Set("db", database)
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func setParamID(c *gin.Context, id int64) {
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatInt(id, 10)}}
}

func createTestUser(t *testing.T, database *gorm.DB, name string, role int) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    name + "@dmed.gov.br",
		Password: "secret-hash",
		Role:     role,
		Status:   models.USER_STATUS_ACTIVE,
	}
	require.NoError(t, database.Create(&user).Error)
	return user
}

func createTestLetter(t *testing.T, database *gorm.DB, number string, status string, ownerID int64) models.Letter {
	t.Helper()
	letter := models.Letter{
		Number:       number,
		Organization: "Prefeitura",
		Subject:      "Assunto " + number,
		Status:       status,
		Priority:     models.PRIORITY_NORMAL,
		OwnerID:      ownerID,
	}
	require.NoError(t, database.Create(&letter).Error)
	return letter
}
