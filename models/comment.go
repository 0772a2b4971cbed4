package models

import "time"

// Comment é uma anotação de um usuário em uma carta.
type Comment struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	LetterID  int64      `gorm:"not null;index" json:"letter_id" form:"letter_id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Text      string     `gorm:"type:text;not null" json:"text" form:"text"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (comment Comment) MissingFields() string {
	if comment.LetterID == 0 {
		return "letter_id"
	} else if comment.Text == "" {
		return "text"
	}
	return ""
}
