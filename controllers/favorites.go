package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// POST /api/letters/:id/favorite
func FavoriteLetter(c *gin.Context) {
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

	var existing models.Favorite
	if err := db.Where("letter_id = ? AND user_id = ?", letter.ID, user.ID).
		First(&existing).Error; err == nil {
		RespondSuccess(c, gin.H{"favorite": existing})
		return
	}

	favorite := models.Favorite{LetterID: letter.ID, UserID: user.ID}
	if err := db.Create(&favorite).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"favorite": favorite})
}

// DELETE /api/letters/:id/favorite
func UnfavoriteLetter(c *gin.Context) {
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
		Delete(&models.Favorite{}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

// GET /api/favorites - cartas favoritas do usuário logado.
func GetMyFavorites(c *gin.Context) {
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

	var letters []models.Letter
	if err := db.Where("id IN (SELECT letter_id FROM favorites WHERE user_id = ?)", user.ID).
		Order("id desc").
		Find(&letters).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"letters": letters})
}
