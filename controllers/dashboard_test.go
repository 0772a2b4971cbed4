package controllers

import (
	"net/http"
	"testing"
	"time"

	"dmed/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDailySeriesIncludesEmptyDays(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local)

	rows := []perDayRow{
		{Day: "2026-03-02", Count: 3},
		{Day: "2026-03-04", Count: 1},
	}

	series := fillDailySeries(from, to, rows)
	require.Len(t, series, 5)

	assert.Equal(t, perDayRow{Day: "2026-03-01", Count: 0}, series[0])
	assert.Equal(t, perDayRow{Day: "2026-03-02", Count: 3}, series[1])
	assert.Equal(t, perDayRow{Day: "2026-03-03", Count: 0}, series[2])
	assert.Equal(t, perDayRow{Day: "2026-03-04", Count: 1}, series[3])
	assert.Equal(t, perDayRow{Day: "2026-03-05", Count: 0}, series[4])
}

func TestGetLettersPerDayRejectsBadRange(t *testing.T) {
	database := setupTestDB(t)

	c, w := newTestContext(t, database, http.MethodGet, nil)
	c.Request.URL.RawQuery = "from=2026-03-10&to=2026-03-01"
	GetLettersPerDay(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(t, database, http.MethodGet, nil)
	c.Request.URL.RawQuery = "from=not-a-date"
	GetLettersPerDay(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSLASummaryCountsOpenRequests(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "ana", models.USER_ROLE_OPERATOR)

	past := time.Now().Add(-48 * time.Hour)
	soon := time.Now().Add(24 * time.Hour)
	far := time.Now().Add(30 * 24 * time.Hour)

	mk := func(number string, status string, deadline *time.Time) {
		r := models.Request{Number: number, Subject: "s", Status: status, OwnerID: user.ID, SLADeadline: deadline}
		require.NoError(t, database.Create(&r).Error)
	}
	mk("R-1", models.REQUEST_STATUS_OPEN, &past)
	mk("R-2", models.REQUEST_STATUS_IN_PROGRESS, &soon)
	mk("R-3", models.REQUEST_STATUS_OPEN, &far)
	mk("R-4", models.REQUEST_STATUS_OPEN, nil)
	mk("R-5", models.REQUEST_STATUS_RESOLVED, &past) // final: fora do resumo

	c, w := newTestContext(t, database, http.MethodGet, nil)
	GetSLASummary(c)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total   int64            `json:"total"`
		Summary map[string]int64 `json:"summary"`
	}
	decodeBody(t, w, &resp)

	assert.Equal(t, int64(4), resp.Total)
	assert.Equal(t, int64(1), resp.Summary[models.SLA_CLASS_OVERDUE])
	assert.Equal(t, int64(1), resp.Summary[models.SLA_CLASS_URGENT])
	assert.Equal(t, int64(1), resp.Summary[models.SLA_CLASS_OK])
	assert.Equal(t, int64(1), resp.Summary[models.SLA_CLASS_NONE])
}
