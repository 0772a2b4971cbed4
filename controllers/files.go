package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Só metadados: o upload físico fica no storage externo, fora daqui.

// GET /api/letters/:id/files
func GetLetterFiles(c *gin.Context) {
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

	var files []models.File
	if err := db.Where("letter_id = ?", letter.ID).
		Order("id asc").
		Find(&files).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"files": files})
}

// POST /api/letters/:id/files - registra o metadado e devolve a storage key.
func CreateLetterFile(c *gin.Context) {
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

	var file models.File
	if err := c.Bind(&file); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	file.LetterID = letter.ID
	file.UploadedBy = user.ID
	file.StorageKey = uuid.NewString()

	missing := file.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}

	if err := db.Create(&file).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"file": file})
}

// DELETE /api/files/:id - quem subiu ou admin.
func DeleteFile(c *gin.Context) {
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

	var file models.File
	if err := db.First(&file, id).Error; err != nil {
		RespondError(c, "arquivo não encontrado", http.StatusNotFound)
		return
	}

	if file.UploadedBy != user.ID && !user.IsAdmin() {
		RespondError(c, "sem permissão", http.StatusForbidden)
		return
	}

	if err := db.Delete(&file).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
