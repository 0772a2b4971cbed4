package controllers

import (
	"fmt"
	"log"
	"strings"
	"time"

	dbpkg "dmed/db"
	"dmed/models"
	"dmed/tools"

	"github.com/gin-gonic/gin"
)

// POST /api/password/forgot (public)
// Body: { "email": "...", "channel": "email|telegram|sms" }
// Retorna sempre true (anti enumeração).
func ForgotPasswordSendCode(c *gin.Context) {
	type Request struct {
		Email   string `json:"email" form:"email"`
		Channel string `json:"channel" form:"channel"`
	}

	var req Request
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		// anti-enumeração: sempre true
		RespondSuccess(c, true)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		// ainda assim, anti-enumeração
		RespondSuccess(c, true)
		return
	}

	channel := strings.ToLower(strings.TrimSpace(req.Channel))
	if channel == "" {
		channel = "email"
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// anti-enumeração: sempre true
		RespondSuccess(c, true)
		return
	}

	// Mantém 1 token ativo por usuário
	_ = db.Where("user_id = ? AND used_at IS NULL", user.ID).Delete(&models.PasswordReset{}).Error

	// Token numérico (6 dígitos)
	tokenText := tools.RandomNumbers(6)
	tokenHash := tools.EncryptTextSHA512(tokenText)

	exp := time.Now().Add(15 * time.Minute)
	reset := models.PasswordReset{
		UserID:    user.ID,
		TokenHash: tokenHash,
		Channel:   channel,
		ExpiresAt: &exp,
	}

	if err := db.Create(&reset).Error; err != nil {
		// anti-enumeração: sempre true
		RespondSuccess(c, true)
		return
	}

	msg := fmt.Sprintf("Código para recuperação de senha: %s\n\nAtenção: a equipe de suporte nunca vai pedir esse código pra você!", tokenText)

	// best-effort em todos os canais; nunca quebra o fluxo
	switch channel {
	case "email":
		client := tools.NewEmailClientFromEnv()
		if client == nil {
			log.Printf("forgot password: smtp não configurado user_id=%d", user.ID)
			break
		}
		if err := client.SendText(user.Email, "Recuperação de senha", msg); err != nil {
			log.Printf("forgot password: email send failed user_id=%d err=%v", user.ID, err)
		}
	case "telegram":
		if user.TelegramChatID == 0 {
			log.Printf("forgot password: usuário sem telegram_chat_id user_id=%d", user.ID)
			break
		}
		client, err := tools.NewTelegramClient(strings.TrimSpace(getenv("TELEGRAM_BOT_TOKEN", "")))
		if err != nil || client == nil {
			log.Printf("forgot password: telegram não configurado user_id=%d err=%v", user.ID, err)
			break
		}
		if err := client.SendText(requestCtx(c), user.TelegramChatID, msg); err != nil {
			log.Printf("forgot password: telegram send failed user_id=%d err=%v", user.ID, err)
		}
	case "sms":
		client := tools.NewSMSClientFromEnv()
		if client == nil || strings.TrimSpace(user.Phone) == "" {
			log.Printf("forgot password: sms indisponível user_id=%d", user.ID)
			break
		}
		if err := client.SendText(requestCtx(c), user.Phone, msg); err != nil {
			log.Printf("forgot password: sms send failed user_id=%d err=%v", user.ID, err)
		}
	default:
		// canal desconhecido: não envia nada
	}

	RespondSuccess(c, true)
}

// POST /api/password/check-token (public)
// Body: { "email": "...", "token": "123456" }
// Retorna true/false (não consome o token).
func CheckResetToken(c *gin.Context) {
	type Request struct {
		Email string `json:"email" form:"email"`
		Token string `json:"token" form:"token"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, false)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	if req.Email == "" || req.Token == "" {
		RespondSuccess(c, false)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondSuccess(c, false)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondSuccess(c, false)
		return
	}

	tokenHash := tools.EncryptTextSHA512(req.Token)

	var reset models.PasswordReset
	err := db.
		Where("user_id = ? AND token_hash = ? AND used_at IS NULL AND expires_at > ?", user.ID, tokenHash, time.Now()).
		Order("id desc").
		First(&reset).Error
	if err != nil {
		RespondSuccess(c, false)
		return
	}

	RespondSuccess(c, true)
}

// POST /api/password/reset (public)
// Body: { "email": "...", "token": "123456", "new_password": "..." }
// Retorna true/false. Consome o token e revoga refresh tokens.
func ResetPassword(c *gin.Context) {
	type Request struct {
		Email       string `json:"email" form:"email"`
		Token       string `json:"token" form:"token"`
		NewPassword string `json:"new_password" form:"new_password"`
	}

	var req Request
	if err := c.Bind(&req); err != nil {
		RespondSuccess(c, false)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)
	req.NewPassword = strings.TrimSpace(req.NewPassword)

	if req.Email == "" || req.Token == "" || req.NewPassword == "" {
		RespondSuccess(c, false)
		return
	}
	if tools.CheckPassword(req.NewPassword) != "" {
		RespondSuccess(c, false)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondSuccess(c, false)
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		RespondSuccess(c, false)
		return
	}

	tokenHash := tools.EncryptTextSHA512(req.Token)

	var reset models.PasswordReset
	err := db.
		Where("user_id = ? AND token_hash = ? AND used_at IS NULL AND expires_at > ?", user.ID, tokenHash, time.Now()).
		Order("id desc").
		First(&reset).Error
	if err != nil {
		RespondSuccess(c, false)
		return
	}

	// Atualiza senha no mesmo padrão do login (sha512 + email salt)
	passwordEncode := encodePassword(user.Email, req.NewPassword)

	tx := db.Begin()

	if err := tx.Model(&user).Update("password", passwordEncode).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	now := time.Now()
	if err := tx.Model(&reset).Update("used_at", &now).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	// Revoga refresh tokens do usuário (força novo login)
	if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		RespondSuccess(c, false)
		return
	}

	RespondSuccess(c, true)
}
