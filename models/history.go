package models

import "time"

// LetterHistory é o registro append-only de mudanças de campos rastreados de uma carta.
// Nunca é atualizado nem apagado.
type LetterHistory struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	LetterID  int64      `gorm:"not null;index" json:"letter_id"`
	UserID    int64      `gorm:"not null;default:0" json:"user_id"`
	Field     string     `gorm:"not null" json:"field"`
	OldValue  string     `gorm:"type:text" json:"old_value"`
	NewValue  string     `gorm:"type:text" json:"new_value"`
	CreatedAt *time.Time `json:"created_at"`
}

// RequestHistory é o equivalente do LetterHistory para requerimentos.
type RequestHistory struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	RequestID int64      `gorm:"not null;index" json:"request_id"`
	UserID    int64      `gorm:"not null;default:0" json:"user_id"`
	Field     string     `gorm:"not null" json:"field"`
	OldValue  string     `gorm:"type:text" json:"old_value"`
	NewValue  string     `gorm:"type:text" json:"new_value"`
	CreatedAt *time.Time `json:"created_at"`
}
