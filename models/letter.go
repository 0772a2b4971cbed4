package models

import "time"

/************************************************
/**** MARK: LETTER STATUS ****/
/************************************************/
const LETTER_STATUS_NEW = "new"
const LETTER_STATUS_REGISTERED = "registered"
const LETTER_STATUS_IN_PROGRESS = "in_progress"
const LETTER_STATUS_ANSWERED = "answered"
const LETTER_STATUS_CLOSED = "closed"
const LETTER_STATUS_REJECTED = "rejected"

/************************************************
/**** MARK: PRIORITY ****/
/************************************************/
const PRIORITY_LOW = 0
const PRIORITY_NORMAL = 1
const PRIORITY_HIGH = 2
const PRIORITY_URGENT = 3

// Letter representa uma correspondência recebida pelo DMED.
// DeletedAt é o soft delete do gorm: registros apagados somem das queries normais.
type Letter struct {
	ID           int64  `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Number       string `gorm:"not null;index" json:"number" form:"number"`
	Organization string `gorm:"not null" json:"organization" form:"organization"`
	Subject      string `gorm:"not null" json:"subject" form:"subject"`
	Content      string `gorm:"type:text" json:"content" form:"content"`

	Status   string `gorm:"not null;default:'new';index" json:"status" form:"status"`
	Priority int    `gorm:"not null;default:1" json:"priority" form:"priority"`

	OwnerID int64 `gorm:"not null;default:0;index" json:"owner_id" form:"owner_id"`

	// Dados de contato do requerente (cidadão ou organização).
	ApplicantName    string `gorm:"default:''" json:"applicant_name" form:"applicant_name"`
	ApplicantEmail   string `gorm:"default:''" json:"applicant_email" form:"applicant_email"`
	ApplicantPhone   string `gorm:"default:''" json:"applicant_phone" form:"applicant_phone"`
	ApplicantAddress string `gorm:"default:''" json:"applicant_address" form:"applicant_address"`

	// Campos livres do fluxo de resposta.
	Answer   string `gorm:"type:text" json:"answer" form:"answer"`
	Zordoc   string `gorm:"default:''" json:"zordoc" form:"zordoc"`
	JiraLink string `gorm:"default:''" json:"jira_link" form:"jira_link"`

	LetterDate   *time.Time `json:"letter_date" form:"letter_date"`
	ReceivedDate *time.Time `json:"received_date" form:"received_date"`
	CloseDate    *time.Time `json:"close_date" form:"close_date"`

	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	DeletedAt *time.Time `sql:"index" json:"deleted_at,omitempty"`
}

func (letter Letter) MissingFields() string {
	if letter.Number == "" {
		return "number"
	} else if letter.Organization == "" {
		return "organization"
	} else if letter.Subject == "" {
		return "subject"
	}
	return ""
}

func IsValidLetterStatus(status string) bool {
	switch status {
	case LETTER_STATUS_NEW, LETTER_STATUS_REGISTERED, LETTER_STATUS_IN_PROGRESS,
		LETTER_STATUS_ANSWERED, LETTER_STATUS_CLOSED, LETTER_STATUS_REJECTED:
		return true
	}
	return false
}

func IsValidPriority(priority int) bool {
	return priority >= PRIORITY_LOW && priority <= PRIORITY_URGENT
}
