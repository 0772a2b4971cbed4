package models

import "time"

/************************************************
/**** MARK: NOTIFICATION EVENTS ****/
/************************************************/
const NOTIFY_EVENT_LETTER_ASSIGNED = "letter_assigned"
const NOTIFY_EVENT_LETTER_STATUS = "letter_status_changed"
const NOTIFY_EVENT_LETTER_COMMENT = "letter_comment"
const NOTIFY_EVENT_SLA_URGENT = "sla_urgent"
const NOTIFY_EVENT_SLA_OVERDUE = "sla_overdue"
const NOTIFY_EVENT_SYSTEM = "system"

/************************************************
/**** MARK: DELIVERY CHANNELS / STATUS ****/
/************************************************/
const CHANNEL_EMAIL = "email"
const CHANNEL_TELEGRAM = "telegram"
const CHANNEL_SMS = "sms"

const DELIVERY_STATUS_PENDING = "pending"
const DELIVERY_STATUS_SENT = "sent"
const DELIVERY_STATUS_FAILED = "failed"
const DELIVERY_STATUS_SKIPPED = "skipped"

// Notification é a mensagem in-app de um usuário.
// DedupeKey + janela suprimem reenvios do mesmo aviso (ex: SLA do mesmo requerimento).
type Notification struct {
	ID          int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Event       string `gorm:"not null;index" json:"event"`
	Title       string `gorm:"not null" json:"title"`
	Body        string `gorm:"type:text" json:"body"`
	RecipientID int64  `gorm:"not null;index" json:"recipient_id"`

	// ActorID é quem causou o evento (0 = sistema).
	ActorID  int64  `gorm:"not null;default:0" json:"actor_id"`
	LetterID *int64 `gorm:"index" json:"letter_id,omitempty"`

	// Metadata é um saco de dados livre serializado em JSON.
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	DedupeKey string     `gorm:"default:'';index" json:"dedupe_key,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	Deliveries []NotificationDelivery `gorm:"association_autoupdate:false;association_autocreate:false" json:"deliveries,omitempty"`
	CreatedAt  *time.Time             `json:"created_at"`
	UpdatedAt  *time.Time             `json:"updated_at"`
}

// NotificationDelivery registra a tentativa de envio por canal externo.
type NotificationDelivery struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	NotificationID int64      `gorm:"not null;index" json:"notification_id"`
	Channel        string     `gorm:"not null" json:"channel"`
	Status         string     `gorm:"not null;default:'pending'" json:"status"`
	RecipientAddr  string     `gorm:"default:''" json:"recipient_addr"`
	Error          string     `gorm:"type:text" json:"error,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}

func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}
