package controllers

import (
	"net/http"

	dbpkg "dmed/db"
	"dmed/models"
	"dmed/notifier"

	"github.com/gin-gonic/gin"
)

// GET /api/letters/:id/comments
func GetLetterComments(c *gin.Context) {
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

	var comments []models.Comment
	if err := db.Where("letter_id = ?", letter.ID).
		Order("id asc").
		Find(&comments).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	RespondSuccess(c, gin.H{"comments": comments})
}

// POST /api/letters/:id/comments
// Watchers da carta (menos o autor) recebem aviso do comentário.
func CreateLetterComment(c *gin.Context) {
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

	var comment models.Comment
	if err := c.Bind(&comment); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	comment.LetterID = letter.ID
	comment.UserID = user.ID

	if comment.Text == "" {
		RespondError(c, "Faltando campo text", http.StatusBadRequest)
		return
	}

	if err := db.Create(&comment).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	ids := []int64{}
	if letter.OwnerID != 0 && letter.OwnerID != user.ID {
		ids = append(ids, letter.OwnerID)
	}
	if watcherIDs, err := notifier.WatcherIDs(db, letter.ID); err == nil {
		for _, wid := range watcherIDs {
			if wid != user.ID {
				ids = append(ids, wid)
			}
		}
	}
	if len(ids) > 0 {
		notifyLetter(c, notifier.Event{
			Name:     models.NOTIFY_EVENT_LETTER_COMMENT,
			Title:    "Novo comentário na carta " + letter.Number,
			Body:     comment.Text,
			LetterID: &letter.ID,
			ActorID:  user.ID,
			UserIDs:  ids,
		})
	}

	RespondSuccess(c, gin.H{"comment": comment})
}

// DELETE /api/comments/:id - autor ou admin.
func DeleteComment(c *gin.Context) {
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

	var comment models.Comment
	if err := db.First(&comment, id).Error; err != nil {
		RespondError(c, "comentário não encontrado", http.StatusNotFound)
		return
	}

	if comment.UserID != user.ID && !user.IsAdmin() {
		RespondError(c, "sem permissão", http.StatusForbidden)
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
