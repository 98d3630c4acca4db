package models

import (
	"time"
)

// NotificationAudience selects which role a notification is addressed to.
type NotificationAudience string

const (
	AudienceAll     NotificationAudience = "all"
	AudienceAdmin   NotificationAudience = "admin"
	AudienceStudent NotificationAudience = "student"
)

// Notification is an in-app notice. Visibility is the conjunction of three
// filters: audience role, optional target user, and optional target course
// (visible only to students enrolled in that course, and to admins).
type Notification struct {
	ID       string               `json:"id" gorm:"primaryKey;size:255"`
	Title    string               `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Message  string               `json:"message" gorm:"type:text;not null" validate:"required,min=1,max=1000"`
	Audience NotificationAudience `json:"audience" gorm:"size:20;not null;default:all;index" validate:"omitempty,oneof=all admin student"`

	// TargetUserID restricts the notification to a single user when set.
	TargetUserID *string `json:"target_user_id" gorm:"size:255;index"`
	// TargetCourseID restricts the notification to users enrolled in the
	// course when set. Admins see course-targeted notifications regardless
	// of enrollment.
	TargetCourseID *string `json:"target_course_id" gorm:"size:255;index"`

	Read bool `json:"read" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
