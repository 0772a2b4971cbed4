package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// requestView agrega o requerimento com a classificação de SLA calculada.
type requestView struct {
	models.Request
	SLAClass          string `json:"sla_class"`
	DaysUntilDeadline *int   `json:"days_until_deadline,omitempty"`
}

func toRequestView(r models.Request, now time.Time) requestView {
	view := requestView{Request: r, SLAClass: r.SLAClass(now)}
	if days, ok := r.DaysUntilDeadline(now); ok {
		view.DaysUntilDeadline = &days
	}
	return view
}

// GET /api/requests
// Filtros: status, priority, owner_id, sla=overdue|urgent|ok, q (number+subject).
func GetRequests(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	q := strings.TrimSpace(c.Query("q"))
	slaFilter := strings.TrimSpace(c.Query("sla"))
	sortBy := strings.TrimSpace(c.DefaultQuery("sort_by", "sla_deadline"))
	order := strings.ToLower(strings.TrimSpace(c.DefaultQuery("order", "asc")))

	limit := clampInt(queryInt(c, "limit", 50), 1, 200)
	offset := clampInt(queryInt(c, "offset", 0), 0, 1_000_000)

	switch sortBy {
	case "created_at", "sla_deadline", "priority", "id":
	default:
		sortBy = "sla_deadline"
	}
	if order != "desc" {
		order = "asc"
	}

	query := db.Model(&models.Request{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if v := strings.TrimSpace(c.Query("priority")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			query = query.Where("priority = ?", p)
		}
	}
	if v := strings.TrimSpace(c.Query("owner_id")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			query = query.Where("owner_id = ?", id)
		}
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("number LIKE ? OR subject LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var requests []models.Request
	if err := query.Order(fmt.Sprintf("%s %s", sortBy, order)).
		Limit(limit).
		Offset(offset).
		Find(&requests).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()
	views := make([]requestView, 0, len(requests))
	for _, r := range requests {
		view := toRequestView(r, now)
		// filtro por classe de SLA é pós-query (a classe é derivada, não coluna)
		if slaFilter != "" && view.SLAClass != slaFilter {
			continue
		}
		views = append(views, view)
	}

	RespondSuccess(c, gin.H{
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"requests": views,
	})
}

// GET /api/requests/:id
func GetRequestByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		RespondError(c, "requerimento não encontrado", http.StatusNotFound)
		return
	}

	RespondSuccess(c, gin.H{"request": toRequestView(request, time.Now())})
}

// POST /api/requests
func CreateRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var request models.Request
	if err := c.Bind(&request); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := request.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if request.Status == "" {
		request.Status = models.REQUEST_STATUS_OPEN
	}
	if !models.IsValidRequestStatus(request.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}
	if !models.IsValidPriority(request.Priority) {
		RespondError(c, "priority inválida", http.StatusBadRequest)
		return
	}
	if request.OwnerID == 0 {
		request.OwnerID = user.ID
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Create(&request).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"request": toRequestView(request, time.Now())})
}

type PatchRequestStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// PATCH /api/requests/:id/status
// Mesmo contrato das cartas: 1 linha de histórico por mudança, na mesma transação.
func PatchRequestStatus(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req PatchRequestStatusRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidRequestStatus(req.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		RespondError(c, "requerimento não encontrado", http.StatusNotFound)
		return
	}

	if request.Status == req.Status {
		RespondSuccess(c, gin.H{"request": toRequestView(request, time.Now())})
		return
	}

	history := models.RequestHistory{
		RequestID: request.ID,
		UserID:    user.ID,
		Field:     "status",
		OldValue:  request.Status,
		NewValue:  req.Status,
	}

	tx := db.Begin()
	if err := tx.Model(&models.Request{}).Where("id = ?", request.ID).
		Update("status", req.Status).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Create(&history).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	request.Status = req.Status
	RespondSuccess(c, gin.H{"request": toRequestView(request, time.Now())})
}

// PUT /api/requests/:id
func UpdateRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		RespondError(c, "requerimento não encontrado", http.StatusNotFound)
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	forbidden := map[string]struct{}{
		"id": {}, "created_at": {}, "updated_at": {}, "deleted_at": {},
	}
	for k := range payload {
		if _, isForbidden := forbidden[strings.ToLower(k)]; isForbidden {
			delete(payload, k)
		}
	}
	if len(payload) == 0 {
		RespondSuccess(c, gin.H{"request": toRequestView(request, time.Now())})
		return
	}

	var histories []models.RequestHistory
	if v, has := payload["status"]; has {
		s, _ := v.(string)
		if !models.IsValidRequestStatus(s) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
		if s != request.Status {
			histories = append(histories, models.RequestHistory{
				RequestID: request.ID,
				UserID:    user.ID,
				Field:     "status",
				OldValue:  request.Status,
				NewValue:  s,
			})
		}
	}

	tx := db.Begin()
	if err := tx.Model(&models.Request{}).Where("id = ?", request.ID).Updates(payload).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for i := range histories {
		if err := tx.Create(&histories[i]).Error; err != nil {
			tx.Rollback()
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var updated models.Request
	if err := db.First(&updated, request.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"request": toRequestView(updated, time.Now())})
}

// DELETE /api/requests/:id (soft delete)
func DeleteRequest(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		RespondError(c, "requerimento não encontrado", http.StatusNotFound)
		return
	}

	if err := db.Delete(&request).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// GET /api/requests/:id/history
func GetRequestHistory(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		RespondError(c, "requerimento não encontrado", http.StatusNotFound)
		return
	}

	var history []models.RequestHistory
	if err := db.Where("request_id = ?", request.ID).
		Order("id asc").
		Find(&history).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"history": history})
}
