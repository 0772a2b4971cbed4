package controllers

import (
	"net/http"
	"time"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// GET /api/notifications
// Query params:
// - unread=true (optional) -> só não lidas
// - limit (default: 50, max: 200), offset
func GetMyNotifications(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	limit := clampInt(queryInt(c, "limit", 50), 1, 200)
	offset := clampInt(queryInt(c, "offset", 0), 0, 1_000_000)

	query := db.Model(&models.Notification{}).Where("recipient_id = ?", user.ID)
	if c.Query("unread") == "true" {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var notifications []models.Notification
	if err := query.Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{
		"total":         total,
		"limit":         limit,
		"offset":        offset,
		"notifications": notifications,
	})
}

// GET /api/notifications/unread-count
func GetUnreadNotificationCount(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var count int64
	if err := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", user.ID).
		Count(&count).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"count": count})
}

// POST /api/notifications/:id/read
func MarkNotificationRead(c *gin.Context) {
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

	var notification models.Notification
	if err := db.Where("id = ? AND recipient_id = ?", id, user.ID).
		First(&notification).Error; err != nil {
		RespondError(c, "notificação não encontrada", http.StatusNotFound)
		return
	}

	if notification.ReadAt == nil {
		now := time.Now()
		if err := db.Model(&notification).Update("read_at", &now).Error; err != nil {
			RespondError(c, err.Error(), http.StatusBadRequest)
			return
		}
		notification.ReadAt = &now
	}

	RespondSuccess(c, gin.H{"notification": notification})
}

// POST /api/notifications/read-all
func MarkAllNotificationsRead(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", user.ID).
		Update("read_at", &now)
	if result.Error != nil {
		RespondError(c, result.Error.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"marked": result.RowsAffected})
}
