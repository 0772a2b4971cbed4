package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"

	"github.com/gin-gonic/gin"
)

func Me(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Perfil é opcional; ausência não é erro.
	if db := dbpkg.DBInstance(c); db != nil {
		var profile models.UserProfile
		if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err == nil {
			user.Profile = &profile
		}
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{"user": user})
}
