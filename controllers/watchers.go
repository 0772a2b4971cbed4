package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// POST /api/letters/:id/watch - inscreve o usuário logado na carta.
func WatchLetter(c *gin.Context) {
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

	var existing models.Watcher
	if err := db.Where("letter_id = ? AND user_id = ?", letter.ID, user.ID).
		First(&existing).Error; err == nil {
		RespondSuccess(c, gin.H{"watcher": existing})
		return
	}

	watcher := models.Watcher{LetterID: letter.ID, UserID: user.ID}
	if err := db.Create(&watcher).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"watcher": watcher})
}

// DELETE /api/letters/:id/watch
func UnwatchLetter(c *gin.Context) {
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

	if err := db.Where("letter_id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Watcher{}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// GET /api/letters/:id/watchers
func GetLetterWatchers(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var users []models.User
	if err := db.Where("id IN (SELECT user_id FROM watchers WHERE letter_id = ?)", id).
		Find(&users).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	RespondSuccess(c, gin.H{"watchers": users})
}
