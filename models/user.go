package models

import (
	"strings"
	"time"

	"dmed/tools"
)

/************************************************
/**** MARK: USER ROLES ****/
/************************************************/
const USER_ROLE_OPERATOR = 0
const USER_ROLE_MANAGER = 1
const USER_ROLE_ADMIN = 2

/************************************************
/**** MARK: USER STATUS ****/
/************************************************/
const USER_STATUS_ACTIVE = 0
const USER_STATUS_BLOCKED = 1

// User representa uma conta de funcionário do DMED.
type User struct {
	ID       int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name     string `gorm:"not null" json:"name" form:"name"`
	Email    string `gorm:"not null;unique" json:"email" form:"email"`
	Password string `gorm:"not null" json:"password,omitempty" form:"password"`
	Phone    string `gorm:"default:''" json:"phone" form:"phone"`
	Role     int    `gorm:"not null;default:0;index" json:"role" form:"role"`
	Status   int    `gorm:"not null;default:0" json:"status" form:"status"`

	// Canais de notificação habilitados pelo próprio usuário.
	NotifyEmail    bool `gorm:"not null;default:true" json:"notify_email" form:"notify_email"`
	NotifyTelegram bool `gorm:"not null;default:false" json:"notify_telegram" form:"notify_telegram"`
	NotifySMS      bool `gorm:"not null;default:false" json:"notify_sms" form:"notify_sms"`

	// Destino do canal Telegram (chat id do bot). 0 = sem vínculo.
	TelegramChatID int64 `gorm:"not null;default:0" json:"telegram_chat_id" form:"telegram_chat_id"`

	// Janela de silêncio "HH:MM" (vazio = sem janela). Pode cruzar meia-noite.
	QuietHoursStart string `gorm:"default:''" json:"quiet_hours_start" form:"quiet_hours_start"`
	QuietHoursEnd   string `gorm:"default:''" json:"quiet_hours_end" form:"quiet_hours_end"`

	Profile   *UserProfile `gorm:"association_autoupdate:false;association_autocreate:false" json:"profile,omitempty"`
	CreatedAt *time.Time   `json:"created_at" form:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at" form:"updated_at"`
}

// UserProfile guarda os dados "de crachá" separados da conta.
type UserProfile struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID     int64      `gorm:"not null;unique_index" json:"user_id"`
	Department string     `gorm:"default:''" json:"department" form:"department"`
	Position   string     `gorm:"default:''" json:"position" form:"position"`
	Room       string     `gorm:"default:''" json:"room" form:"room"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Name == "" {
		return "name"
	} else if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if tools.CheckPassword(user.Password) != "" {
		return tools.CheckPassword(user.Password)
	}
	return ""
}

func (user User) IsAdmin() bool {
	return user.Role == USER_ROLE_ADMIN
}

func IsValidRole(role int) bool {
	switch role {
	case USER_ROLE_OPERATOR, USER_ROLE_MANAGER, USER_ROLE_ADMIN:
		return true
	}
	return false
}

// InQuietHours diz se "now" cai dentro da janela de silêncio do usuário.
// Janelas podem cruzar meia-noite (ex: 22:00 -> 07:00).
func (user User) InQuietHours(now time.Time) bool {
	start := strings.TrimSpace(user.QuietHoursStart)
	end := strings.TrimSpace(user.QuietHoursEnd)
	if start == "" || end == "" {
		return false
	}
	startT, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	endT, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	s := startT.Hour()*60 + startT.Minute()
	e := endT.Hour()*60 + endT.Minute()

	if s == e {
		return false
	}
	if s < e {
		return cur >= s && cur < e
	}
	// janela cruzando meia-noite
	return cur >= s || cur < e
}
