package models

import (
	"time"

	"gorm.io/datatypes"
)

// CourseProgress tracks which roadmap steps a student has completed for a
// course. Keyed by (course, user) so each student carries independent
// progress per course.
type CourseProgress struct {
	CourseID string `json:"course_id" gorm:"primaryKey;size:255"`
	UserID   string `json:"user_id" gorm:"primaryKey;size:255"`

	// CompletedSteps holds zero-based roadmap step indices, unordered.
	CompletedSteps datatypes.JSONSlice[int] `json:"completed_steps" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	User   User   `json:"-" gorm:"foreignKey:UserID"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}

// HasStep reports whether the given step index is marked complete.
func (p *CourseProgress) HasStep(index int) bool {
	for _, s := range p.CompletedSteps {
		if s == index {
			return true
		}
	}
	return false
}

// ToggleStep flips membership of the step index in the completed set and
// reports whether the step is complete after the flip.
func (p *CourseProgress) ToggleStep(index int) bool {
	for i, s := range p.CompletedSteps {
		if s == index {
			p.CompletedSteps = append(p.CompletedSteps[:i], p.CompletedSteps[i+1:]...)
			return false
		}
	}
	p.CompletedSteps = append(p.CompletedSteps, index)
	return true
}
