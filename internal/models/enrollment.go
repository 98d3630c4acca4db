package models

import (
	"time"
)

// Enrollment links a student to a course. One row per (user, course) pair,
// enforced by the composite primary key.
type Enrollment struct {
	UserID     string    `json:"user_id" gorm:"primaryKey;size:255"`
	CourseID   string    `json:"course_id" gorm:"primaryKey;size:255"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User   User   `json:"-" gorm:"foreignKey:UserID"`
	Course Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
