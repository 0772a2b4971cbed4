package models

import "time"

// Template é um modelo de texto de resposta reutilizável.
type Template struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null;unique" json:"name" form:"name"`
	Subject   string     `gorm:"default:''" json:"subject" form:"subject"`
	Body      string     `gorm:"type:text;not null" json:"body" form:"body"`
	CreatedBy int64      `gorm:"not null;default:0" json:"created_by"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (template Template) MissingFields() string {
	if template.Name == "" {
		return "name"
	} else if template.Body == "" {
		return "body"
	}
	return ""
}
