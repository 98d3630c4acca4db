package models

import (
	"time"
)

// ChatMessage is a broadcast message in a course discussion feed. Only
// admins may post; students read the feed of courses they are enrolled in.
type ChatMessage struct {
	ID         string `json:"id" gorm:"primaryKey;size:255"`
	CourseID   string `json:"course_id" gorm:"not null;size:255;index"`
	SenderID   string `json:"sender_id" gorm:"not null;size:255"`
	SenderName string `json:"sender_name" gorm:"not null;size:100"`
	Text       string `json:"text" gorm:"type:text;not null" validate:"required,min=1,max=2000"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Sender User   `json:"-" gorm:"foreignKey:SenderID"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
