package models

import "time"

// Tag é um rótulo administrado (cor + nome único).
type Tag struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null;unique" json:"name" form:"name"`
	Color     string     `gorm:"default:''" json:"color" form:"color"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// LetterTag é o vínculo carta <-> tag (no máximo 1 por par).
type LetterTag struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	LetterID  int64      `gorm:"not null;index;unique_index:ux_letter_tag" json:"letter_id" form:"letter_id"`
	TagID     int64      `gorm:"not null;index;unique_index:ux_letter_tag" json:"tag_id" form:"tag_id"`
	CreatedAt *time.Time `json:"created_at"`
}
