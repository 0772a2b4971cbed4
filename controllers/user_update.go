package controllers

import (
	"net/http"
	"strings"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// UpdateCurrentUser updates the logged user ("me").
// Route: PUT /api/user
//
// Forbidden fields: id, email, password, role, status, created_at, updated_at.
// Preferências de notificação e quiet hours são atualizáveis por aqui.
func UpdateCurrentUser(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	// Bind to a generic map so we can ignore forbidden keys safely.
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	// Remove forbidden fields (case-insensitive).
	forbidden := map[string]struct{}{
		"id":         {},
		"email":      {},
		"password":   {},
		"role":       {},
		"status":     {},
		"created_at": {},
		"updated_at": {},
	}
	for k := range payload {
		if _, isForbidden := forbidden[strings.ToLower(k)]; isForbidden {
			delete(payload, k)
		}
	}

	// Quiet hours precisam ser "HH:MM" válidos (ou vazio pra limpar).
	for _, key := range []string{"quiet_hours_start", "quiet_hours_end"} {
		v, has := payload[key]
		if !has {
			continue
		}
		s, isStr := v.(string)
		if !isStr || !isValidClock(s) {
			RespondError(c, key+" inválido (use HH:MM)", http.StatusBadRequest)
			return
		}
	}

	// If nothing left to update, just return current user.
	if len(payload) == 0 {
		u := logged
		u.Password = ""
		RespondSuccess(c, u)
		return
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", logged.ID).
		Updates(payload).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var updated models.User
	if err := db.Where("id = ?", logged.ID).First(&updated).Error; err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	updated.Password = ""
	RespondSuccess(c, updated)
}

func isValidClock(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return false
	}
	h := atoiOr(parts[0], -1)
	m := atoiOr(parts[1], -1)
	return h >= 0 && h <= 23 && m >= 0 && m <= 59
}

func atoiOr(s string, def int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return def
		}
		n = n*10 + int(r-'0')
	}
	if s == "" {
		return def
	}
	return n
}

// PUT /api/user/profile - cria/atualiza o perfil do usuário logado.
func UpdateCurrentUserProfile(c *gin.Context) {
	logged, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var body models.UserProfile
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	var profile models.UserProfile
	if err := db.Where("user_id = ?", logged.ID).First(&profile).Error; err != nil {
		profile = models.UserProfile{UserID: logged.ID}
	}
	profile.Department = body.Department
	profile.Position = body.Position
	profile.Room = body.Room

	if err := db.Save(&profile).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"profile": profile})
}
