package models

import "time"

// Watcher vincula um usuário a uma carta para receber avisos de mudanças.
// Regra: no máximo 1 vínculo por (letter, user).
type Watcher struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	LetterID  int64      `gorm:"not null;index;unique_index:ux_watcher" json:"letter_id" form:"letter_id"`
	UserID    int64      `gorm:"not null;index;unique_index:ux_watcher" json:"user_id" form:"user_id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// Favorite marca uma carta na lista pessoal do usuário.
type Favorite struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	LetterID  int64      `gorm:"not null;index;unique_index:ux_favorite" json:"letter_id" form:"letter_id"`
	UserID    int64      `gorm:"not null;index;unique_index:ux_favorite" json:"user_id" form:"user_id"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
