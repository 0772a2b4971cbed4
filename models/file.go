package models

import "time"

// File é apenas o registro de metadados de um anexo de carta.
// O conteúdo em si fica no storage externo, referenciado por StorageKey (uuid).
type File struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	LetterID    int64      `gorm:"not null;index" json:"letter_id" form:"letter_id"`
	Name        string     `gorm:"not null" json:"name" form:"name"`
	Size        int64      `gorm:"not null;default:0" json:"size" form:"size"`
	ContentType string     `gorm:"default:''" json:"content_type" form:"content_type"`
	StorageKey  string     `gorm:"not null;unique" json:"storage_key"`
	UploadedBy  int64      `gorm:"not null;default:0" json:"uploaded_by"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func (file File) MissingFields() string {
	if file.LetterID == 0 {
		return "letter_id"
	} else if file.Name == "" {
		return "name"
	}
	return ""
}
