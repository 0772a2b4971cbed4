package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

// GET /api/templates
func GetTemplates(c *gin.Context) {
	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var templates []models.Template
	if err := db.Order("name asc").Find(&templates).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"templates": templates})
}

// GET /api/templates/:id
func GetTemplateByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var template models.Template
	if err := db.First(&template, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}
	RespondSuccess(c, gin.H{"template": template})
}

// POST /api/templates (admin)
func CreateTemplate(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var template models.Template
	if err := c.Bind(&template); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	missing := template.MissingFields()
	if missing != "" {
		RespondError(c, "Faltando campo "+missing, http.StatusBadRequest)
		return
	}
	template.CreatedBy = user.ID

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Create(&template).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"template": template})
}

// PUT /api/templates/:id (admin)
func UpdateTemplate(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var body models.Template
	if err := c.Bind(&body); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	var template models.Template
	if err := db.First(&template, id).Error; err != nil {
		RespondError(c, "template não encontrado", http.StatusNotFound)
		return
	}

	if body.Name != "" {
		template.Name = body.Name
	}
	template.Subject = body.Subject
	if body.Body != "" {
		template.Body = body.Body
	}

	if err := db.Save(&template).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"template": template})
}

// DELETE /api/templates/:id (admin)
func DeleteTemplate(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := db.Delete(&models.Template{}, "id = ?", id).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
