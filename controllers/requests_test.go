package controllers

import (
	"net/http"
	"testing"
	"time"

	"dmed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchRequestStatusWritesSingleHistoryRow(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	deadline := time.Now().Add(10 * 24 * time.Hour)
	request := models.Request{
		Number:      "R-001",
		Subject:     "Pedido",
		Status:      models.REQUEST_STATUS_OPEN,
		OwnerID:     user.ID,
		SLADeadline: &deadline,
	}
	require.NoError(t, database.Create(&request).Error)

	c, w := newTestContext(t, database, http.MethodPatch, PatchRequestStatusRequest{Status: models.REQUEST_STATUS_IN_PROGRESS})
	setParamID(c, request.ID)
	SetUserLogged(c, user)

	PatchRequestStatus(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var histories []models.RequestHistory
	require.NoError(t, database.Where("request_id = ?", request.ID).Find(&histories).Error)
	require.Len(t, histories, 1)
	assert.Equal(t, models.REQUEST_STATUS_OPEN, histories[0].OldValue)
	assert.Equal(t, models.REQUEST_STATUS_IN_PROGRESS, histories[0].NewValue)
}

func TestGetRequestsFiltersBySLAClass(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	past := time.Now().Add(-48 * time.Hour)
	far := time.Now().Add(30 * 24 * time.Hour)

	overdue := models.Request{Number: "R-1", Subject: "a", Status: models.REQUEST_STATUS_OPEN, OwnerID: user.ID, SLADeadline: &past}
	okReq := models.Request{Number: "R-2", Subject: "b", Status: models.REQUEST_STATUS_OPEN, OwnerID: user.ID, SLADeadline: &far}
	require.NoError(t, database.Create(&overdue).Error)
	require.NoError(t, database.Create(&okReq).Error)

	c, w := newTestContext(t, database, http.MethodGet, nil)
	c.Request.URL.RawQuery = "sla=overdue"
	GetRequests(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Requests []struct {
			ID       int64  `json:"id"`
			SLAClass string `json:"sla_class"`
		} `json:"requests"`
	}
	decodeBody(t, w, &resp)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, overdue.ID, resp.Requests[0].ID)
	assert.Equal(t, models.SLA_CLASS_OVERDUE, resp.Requests[0].SLAClass)
}

func TestGetRequestByIDIncludesSLAView(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	soon := time.Now().Add(24 * time.Hour)
	request := models.Request{Number: "R-1", Subject: "a", Status: models.REQUEST_STATUS_OPEN, OwnerID: user.ID, SLADeadline: &soon}
	require.NoError(t, database.Create(&request).Error)

	c, w := newTestContext(t, database, http.MethodGet, nil)
	setParamID(c, request.ID)
	GetRequestByID(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Request struct {
			SLAClass          string `json:"sla_class"`
			DaysUntilDeadline *int   `json:"days_until_deadline"`
		} `json:"request"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, models.SLA_CLASS_URGENT, resp.Request.SLAClass)
	require.NotNil(t, resp.Request.DaysUntilDeadline)
	assert.Equal(t, 1, *resp.Request.DaysUntilDeadline)
}

func TestDeletedRequestsStayOutOfList(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	request := models.Request{Number: "R-1", Subject: "a", Status: models.REQUEST_STATUS_OPEN, OwnerID: user.ID}
	require.NoError(t, database.Create(&request).Error)
	require.NoError(t, database.Delete(&request).Error)

	c, w := newTestContext(t, database, http.MethodGet, nil)
	GetRequests(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int64 `json:"total"`
	}
	decodeBody(t, w, &resp)
	assert.Equal(t, int64(0), resp.Total)
}
