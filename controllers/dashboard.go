package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// ------------------------------
// Dashboard - Stats
// ------------------------------

type perDayRow struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// GET /api/dashboard/letters-per-day
// Query params:
// - from=YYYY-MM-DD (optional, default: hoje-6)
// - to=YYYY-MM-DD   (optional, default: hoje)
// Retorna uma série diária de cartas recebidas (inclui dias com 0).
func GetLettersPerDay(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	// Normaliza para início do dia e usa "to exclusivo" (dia seguinte 00:00).
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	toInclusive := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.Local)
	toExclusive := toInclusive.AddDate(0, 0, 1)

	// Monta a query dependendo do dialeto.
	dialect := strings.ToLower(db.Dialect().GetName())

	dayExpr := "date(created_at)" // fallback genérico
	if strings.Contains(dialect, "sqlite") {
		dayExpr = "strftime('%Y-%m-%d', created_at, 'localtime')"
	} else if strings.Contains(dialect, "postgres") {
		dayExpr = "to_char(date_trunc('day', created_at), 'YYYY-MM-DD')"
	}

	var rows []perDayRow
	q := db.Table("letters").
		Select(fmt.Sprintf("%s as day, count(*) as count", dayExpr)).
		Where("deleted_at IS NULL").
		Where("created_at >= ? AND created_at < ?", from, toExclusive).
		Group("day").
		Order("day asc")

	if err := q.Scan(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	series := fillDailySeries(from, toInclusive, rows)
	RespondSuccess(c, gin.H{
		"from":   from.Format("2006-01-02"),
		"to":     toInclusive.Format("2006-01-02"),
		"series": series,
	})
}

type statusCountRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GET /api/dashboard/letters-by-status
func GetLettersByStatus(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var rows []statusCountRow
	if err := db.Table("letters").
		Select("status, count(*) as count").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&rows).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"counts": rows})
}

// GET /api/dashboard/sla-summary
// Conta requerimentos abertos por classe de SLA (overdue/urgent/ok/none).
func GetSLASummary(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var requests []models.Request
	if err := db.Where("status IN (?)", []string{
		models.REQUEST_STATUS_OPEN,
		models.REQUEST_STATUS_IN_PROGRESS,
	}).Find(&requests).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	summary := map[string]int64{
		models.SLA_CLASS_OVERDUE: 0,
		models.SLA_CLASS_URGENT:  0,
		models.SLA_CLASS_OK:      0,
		models.SLA_CLASS_NONE:    0,
	}
	for _, r := range requests {
		summary[r.SLAClass(now)]++
	}

	RespondSuccess(c, gin.H{
		"total":   int64(len(requests)),
		"summary": summary,
	})
}

// ------------------------------
// Helpers
// ------------------------------

func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	// defaults: últimos 7 dias
	now := time.Now()
	defTo := now
	defFrom := now.AddDate(0, 0, -6)

	fromStr := strings.TrimSpace(c.Query("from"))
	toStr := strings.TrimSpace(c.Query("to"))

	from := defFrom
	to := defTo
	var err error

	if fromStr != "" {
		from, err = time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			RespondError(c, "from inválido (use YYYY-MM-DD)", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
	}
	if toStr != "" {
		to, err = time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			RespondError(c, "to inválido (use YYYY-MM-DD)", http.StatusBadRequest)
			return time.Time{}, time.Time{}, false
		}
	}
	if from.After(to) {
		RespondError(c, "from não pode ser maior que to", http.StatusBadRequest)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func fillDailySeries(from time.Time, to time.Time, rows []perDayRow) []perDayRow {
	// mapa day->count
	m := map[string]int64{}
	for _, r := range rows {
		if r.Day == "" {
			continue
		}
		m[r.Day] = r.Count
	}

	var out []perDayRow
	// itera por dia (inclusive)
	cur := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.Local)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.Local)
	for !cur.After(end) {
		key := cur.Format("2006-01-02")
		out = append(out, perDayRow{Day: key, Count: m[key]})
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}
