package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	dbpkg "dmed/db"
	"dmed/models"
	"dmed/notifier"

	"github.com/gin-gonic/gin"
)

// GET /api/letters
// Query params:
// - status, priority, owner_id, tag_id (optional filters)
// - q=texto (optional) -> busca em number + organization + subject
// - sort_by=created_at|received_date|letter_date|priority|id (default: created_at)
// - order=asc|desc (default: desc)
// - limit (default: 50, max: 200), offset
//
// Cartas soft-deletadas nunca aparecem aqui (gorm filtra deleted_at).
func GetLetters(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	status := strings.TrimSpace(c.Query("status"))
	q := strings.TrimSpace(c.Query("q"))
	sortBy := strings.TrimSpace(c.DefaultQuery("sort_by", "created_at"))
	order := strings.ToLower(strings.TrimSpace(c.DefaultQuery("order", "desc")))

	limit := clampInt(queryInt(c, "limit", 50), 1, 200)
	offset := clampInt(queryInt(c, "offset", 0), 0, 1_000_000)

	// whitelist sort fields
	switch sortBy {
	case "created_at", "received_date", "letter_date", "priority", "id":
	default:
		sortBy = "created_at"
	}
	if order != "asc" {
		order = "desc"
	}

	query := db.Model(&models.Letter{})

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
	if v := strings.TrimSpace(c.Query("tag_id")); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			query = query.Where("id IN (SELECT letter_id FROM letter_tags WHERE tag_id = ?)", id)
		}
	}
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("number LIKE ? OR organization LIKE ? OR subject LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var letters []models.Letter
	if err := query.Order(fmt.Sprintf("%s %s", sortBy, order)).
		Limit(limit).
		Offset(offset).
		Find(&letters).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"letters": letters,
	})
}

// GET /api/letters/:id
func GetLetterByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var letter models.Letter
	if err := db.First(&letter, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}

	var tags []models.Tag
	db.Model(&models.Tag{}).
		Where("id IN (SELECT tag_id FROM letter_tags WHERE letter_id = ?)", letter.ID).
		Find(&tags)

	RespondSuccess(c, gin.H{"letter": letter, "tags": tags})
}

// POST /api/letters
func CreateLetter(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var letter models.Letter
	if err := c.Bind(&letter); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := letter.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	if letter.Status == "" {
		letter.Status = models.LETTER_STATUS_NEW
	}
	if !models.IsValidLetterStatus(letter.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}
	if !models.IsValidPriority(letter.Priority) {
		RespondError(c, "priority inválida", http.StatusBadRequest)
		return
	}
	if letter.OwnerID == 0 {
		letter.OwnerID = user.ID
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Create(&letter).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// Dono diferente do criador recebe aviso de atribuição.
	if letter.OwnerID != user.ID {
		notifyLetter(c, notifier.Event{
			Name:     models.NOTIFY_EVENT_LETTER_ASSIGNED,
			Title:    "Nova carta atribuída: " + letter.Number,
			Body:     letter.Subject,
			LetterID: &letter.ID,
			ActorID:  user.ID,
			UserIDs:  []int64{letter.OwnerID},
		})
	}

	RespondSuccess(c, gin.H{"letter": letter})
}

// letterTrackedFields são os campos que geram linha de histórico ao mudar.
var letterTrackedFields = map[string]bool{
	"status":   true,
	"owner_id": true,
	"priority": true,
}

// PUT /api/letters/:id
// Campos rastreados que mudam geram exatamente 1 linha de histórico cada,
// na mesma transação do update.
func UpdateLetter(c *gin.Context) {
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

	var letter models.Letter
	if err := db.First(&letter, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
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
		RespondSuccess(c, gin.H{"letter": letter})
		return
	}

	if v, has := payload["status"]; has {
		s, _ := v.(string)
		if !models.IsValidLetterStatus(s) {
			RespondError(c, "status inválido", http.StatusBadRequest)
			return
		}
	}

	histories := buildLetterHistories(letter, payload, user.ID)

	tx := db.Begin()
	if err := tx.Model(&models.Letter{}).Where("id = ?", letter.ID).Updates(payload).Error; err != nil {
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

	var updated models.Letter
	if err := db.First(&updated, letter.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	if updated.Status != letter.Status {
		notifyLetterStatusChange(c, letter, updated, user.ID)
	}
	if updated.OwnerID != letter.OwnerID && updated.OwnerID != user.ID {
		notifyLetter(c, notifier.Event{
			Name:     models.NOTIFY_EVENT_LETTER_ASSIGNED,
			Title:    "Carta atribuída a você: " + updated.Number,
			Body:     updated.Subject,
			LetterID: &updated.ID,
			ActorID:  user.ID,
			UserIDs:  []int64{updated.OwnerID},
		})
	}

	RespondSuccess(c, gin.H{"letter": updated})
}

// buildLetterHistories compara payload x estado atual e monta as linhas de histórico.
func buildLetterHistories(letter models.Letter, payload map[string]any, userID int64) []models.LetterHistory {
	current := map[string]string{
		"status":   letter.Status,
		"owner_id": strconv.FormatInt(letter.OwnerID, 10),
		"priority": strconv.Itoa(letter.Priority),
	}

	var out []models.LetterHistory
	for field := range letterTrackedFields {
		v, has := payload[field]
		if !has {
			continue
		}
		newValue := stringifyFieldValue(v)
		if newValue == current[field] {
			continue
		}
		out = append(out, models.LetterHistory{
			LetterID: letter.ID,
			UserID:   userID,
			Field:    field,
			OldValue: current[field],
			NewValue: newValue,
		})
	}
	return out
}

func stringifyFieldValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers chegam como float64
		return strconv.FormatInt(int64(t), 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

type PatchStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// PATCH /api/letters/:id/status
func PatchLetterStatus(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var req PatchStatusRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if !models.IsValidLetterStatus(req.Status) {
		RespondError(c, "status inválido", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var letter models.Letter
	if err := db.First(&letter, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}

	if letter.Status == req.Status {
		RespondSuccess(c, gin.H{"letter": letter})
		return
	}

	updates := map[string]any{"status": req.Status}
	if req.Status == models.LETTER_STATUS_CLOSED && letter.CloseDate == nil {
		now := time.Now()
		updates["close_date"] = &now
	}

	history := models.LetterHistory{
		LetterID: letter.ID,
		UserID:   user.ID,
		Field:    "status",
		OldValue: letter.Status,
		NewValue: req.Status,
	}

	tx := db.Begin()
	if err := tx.Model(&models.Letter{}).Where("id = ?", letter.ID).Updates(updates).Error; err != nil {
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

	var updated models.Letter
	if err := db.First(&updated, letter.ID).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}

	notifyLetterStatusChange(c, letter, updated, user.ID)

	RespondSuccess(c, gin.H{"letter": updated})
}

// DELETE /api/letters/:id (soft delete via gorm DeletedAt)
func DeleteLetter(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var letter models.Letter
	if err := db.First(&letter, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}

	if err := db.Delete(&letter).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// POST /api/letters/:id/restore (admin)
func RestoreLetter(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var letter models.Letter
	if err := db.Unscoped().First(&letter, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}
	if letter.DeletedAt == nil {
		RespondSuccess(c, gin.H{"letter": letter})
		return
	}

	if err := db.Unscoped().Model(&models.Letter{}).
		Where("id = ?", letter.ID).
		Update("deleted_at", nil).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	letter.DeletedAt = nil
	RespondSuccess(c, gin.H{"letter": letter})
}

// POST /api/letters/:id/duplicate
// Copia a carta zerando answer, zordoc, jira_link e close_date; os vínculos
// de tag são copiados junto, tudo numa transação.
func DuplicateLetter(c *gin.Context) {
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

	var original models.Letter
	if err := db.First(&original, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}

	dup := original
	dup.ID = 0
	dup.Status = models.LETTER_STATUS_NEW
	dup.Answer = ""
	dup.Zordoc = ""
	dup.JiraLink = ""
	dup.CloseDate = nil
	dup.CreatedAt = nil
	dup.UpdatedAt = nil
	if dup.OwnerID == 0 {
		dup.OwnerID = user.ID
	}

	var links []models.LetterTag
	if err := db.Where("letter_id = ?", original.ID).Find(&links).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	tx := db.Begin()
	if err := tx.Create(&dup).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for _, link := range links {
		newLink := models.LetterTag{LetterID: dup.ID, TagID: link.TagID}
		if err := tx.Create(&newLink).Error; err != nil {
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

	RespondSuccess(c, gin.H{"letter": dup})
}

// GET /api/letters/:id/history
func GetLetterHistory(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var letter models.Letter
	if err := db.First(&letter, id).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}

	var history []models.LetterHistory
	if err := db.Where("letter_id = ?", letter.ID).
		Order("id asc").
		Find(&history).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"history": history})
}

// notifyLetterStatusChange avisa dono + watchers (menos o autor da mudança).
func notifyLetterStatusChange(c *gin.Context, before models.Letter, after models.Letter, actorID int64) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		return
	}

	ids := []int64{}
	if after.OwnerID != 0 {
		ids = append(ids, after.OwnerID)
	}
	if watcherIDs, err := notifier.WatcherIDs(db, after.ID); err == nil {
		ids = append(ids, watcherIDs...)
	}

	// auto-notificação filtrada aqui, antes do Dispatch
	recipients := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != actorID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	notifyLetter(c, notifier.Event{
		Name:     models.NOTIFY_EVENT_LETTER_STATUS,
		Title:    fmt.Sprintf("Carta %s: %s -> %s", after.Number, before.Status, after.Status),
		Body:     after.Subject,
		LetterID: &after.ID,
		ActorID:  actorID,
		UserIDs:  recipients,
		Metadata: map[string]any{
			"old_status": before.Status,
			"new_status": after.Status,
		},
	})
}

// notifyLetter dispara um evento se houver dispatcher no contexto (best-effort).
func notifyLetter(c *gin.Context, ev notifier.Event) {
	d := notifier.FromContext(c)
	if d == nil {
		return
	}
	if _, err := d.Dispatch(requestCtx(c), ev); err != nil {
		// notificação nunca derruba a resposta HTTP
		log.Printf("notify %s: %v", ev.Name, err)
	}
}
