package models

import (
	"math"
	"time"
)

/************************************************
/**** MARK: REQUEST STATUS ****/
/************************************************/
const REQUEST_STATUS_OPEN = "open"
const REQUEST_STATUS_IN_PROGRESS = "in_progress"
const REQUEST_STATUS_RESOLVED = "resolved"
const REQUEST_STATUS_CLOSED = "closed"
const REQUEST_STATUS_REJECTED = "rejected"

/************************************************
/**** MARK: SLA CLASSES ****/
/************************************************/
const SLA_CLASS_OK = "ok"
const SLA_CLASS_URGENT = "urgent"
const SLA_CLASS_OVERDUE = "overdue"
const SLA_CLASS_NONE = "none"

// Quantos dias antes do prazo um requerimento vira "urgent".
const SLA_URGENT_THRESHOLD_DAYS = 2

// Request representa um requerimento de serviço de cidadão/organização,
// com fluxo de SLA próprio (prazo em sla_deadline).
type Request struct {
	ID      int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Number  string `gorm:"not null;index" json:"number" form:"number"`
	Subject string `gorm:"not null" json:"subject" form:"subject"`
	Content string `gorm:"type:text" json:"content" form:"content"`

	Status   string `gorm:"not null;default:'open';index" json:"status" form:"status"`
	Priority int    `gorm:"not null;default:1" json:"priority" form:"priority"`

	OwnerID int64 `gorm:"not null;default:0;index" json:"owner_id" form:"owner_id"`

	ApplicantName  string `gorm:"default:''" json:"applicant_name" form:"applicant_name"`
	ApplicantEmail string `gorm:"default:''" json:"applicant_email" form:"applicant_email"`
	ApplicantPhone string `gorm:"default:''" json:"applicant_phone" form:"applicant_phone"`

	SLADeadline *time.Time `gorm:"column:sla_deadline;index" json:"sla_deadline" form:"sla_deadline"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `sql:"index" json:"deleted_at,omitempty"`
}

func (request Request) MissingFields() string {
	if request.Number == "" {
		return "number"
	} else if request.Subject == "" {
		return "subject"
	}
	return ""
}

func IsValidRequestStatus(status string) bool {
	switch status {
	case REQUEST_STATUS_OPEN, REQUEST_STATUS_IN_PROGRESS, REQUEST_STATUS_RESOLVED,
		REQUEST_STATUS_CLOSED, REQUEST_STATUS_REJECTED:
		return true
	}
	return false
}

// IsFinalStatus diz se o requerimento saiu do fluxo de SLA.
func (request Request) IsFinalStatus() bool {
	switch request.Status {
	case REQUEST_STATUS_RESOLVED, REQUEST_STATUS_CLOSED, REQUEST_STATUS_REJECTED:
		return true
	}
	return false
}

// DaysUntilDeadline devolve quantos dias faltam até o prazo (arredondando pra cima).
// Negativo = prazo estourado. O booleano é false quando não há prazo configurado.
func (request Request) DaysUntilDeadline(now time.Time) (int, bool) {
	if request.SLADeadline == nil {
		return 0, false
	}
	diff := request.SLADeadline.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24.0))
	return days, true
}

// SLAClass classifica o prazo pelo sinal e magnitude dos dias restantes.
func (request Request) SLAClass(now time.Time) string {
	if request.IsFinalStatus() {
		return SLA_CLASS_NONE
	}
	days, ok := request.DaysUntilDeadline(now)
	if !ok {
		return SLA_CLASS_NONE
	}
	if days < 0 {
		return SLA_CLASS_OVERDUE
	}
	if days <= SLA_URGENT_THRESHOLD_DAYS {
		return SLA_CLASS_URGENT
	}
	return SLA_CLASS_OK
}
