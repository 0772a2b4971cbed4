package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// GET /api/tags
func GetTags(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tags []models.Tag
	if err := db.Order("name asc").Find(&tags).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"tags": tags})
}

// POST /api/tags (admin)
func CreateTag(c *gin.Context) {
	var tag models.Tag
	if err := c.Bind(&tag); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if tag.Name == "" {
		RespondError(c, "name é obrigatório", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Create(&tag).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"tag": tag})
}

// PUT /api/tags/:id (admin)
func UpdateTag(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var body models.Tag
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var tag models.Tag
	if err := db.First(&tag, id).Error; err != nil {
		RespondError(c, "tag não encontrada", http.StatusNotFound)
		return
	}

	if body.Name != "" {
		tag.Name = body.Name
	}
	tag.Color = body.Color

	if err := db.Save(&tag).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"tag": tag})
}

// DELETE /api/tags/:id (admin) - remove também os vínculos.
func DeleteTag(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	tx := db.Begin()
	if err := tx.Where("tag_id = ?", id).Delete(&models.LetterTag{}).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Delete(&models.Tag{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}

type LetterTagRequest struct {
	LetterID int64 `json:"letter_id" form:"letter_id"`
	TagID    int64 `json:"tag_id" form:"tag_id"`
}

// POST /api/letter-tags - vincula tag a carta (ids no body, igual plan-modules).
func AddTagToLetter(c *gin.Context) {
	var req LetterTagRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.LetterID == 0 || req.TagID == 0 {
		RespondError(c, "letter_id e tag_id são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var letter models.Letter
	if err := db.First(&letter, req.LetterID).Error; err != nil {
		RespondError(c, "carta não encontrada", http.StatusNotFound)
		return
	}
	var tag models.Tag
	if err := db.First(&tag, req.TagID).Error; err != nil {
		RespondError(c, "tag não encontrada", http.StatusNotFound)
		return
	}

	var existing models.LetterTag
	if err := db.Where("letter_id = ? AND tag_id = ?", req.LetterID, req.TagID).
		First(&existing).Error; err == nil {
		RespondSuccess(c, gin.H{"letter_tag": existing})
		return
	}

	link := models.LetterTag{LetterID: req.LetterID, TagID: req.TagID}
	if err := db.Create(&link).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"letter_tag": link})
}

// DELETE /api/letter-tags - desvincula (ids no body).
func RemoveTagFromLetter(c *gin.Context) {
	var req LetterTagRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.LetterID == 0 || req.TagID == 0 {
		RespondError(c, "letter_id e tag_id são obrigatórios", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Where("letter_id = ? AND tag_id = ?", req.LetterID, req.TagID).
		Delete(&models.LetterTag{}).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
