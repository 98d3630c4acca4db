package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CourseTrend string

const (
	TrendHot        CourseTrend = "Hot"
	TrendGrowing    CourseTrend = "Growing"
	TrendBestSeller CourseTrend = "Best Seller"
	TrendNew        CourseTrend = "New"
	TrendStable     CourseTrend = "Stable"
)

type Course struct {
	ID          string      `json:"id" gorm:"primaryKey;size:255"`
	Title       string      `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string      `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Instructor  string      `json:"instructor" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Price       float64     `json:"price" gorm:"not null" validate:"min=0"`
	Duration    string      `json:"duration" gorm:"size:50" validate:"omitempty,max=50"`
	StartDate   string      `json:"start_date" gorm:"size:20" validate:"omitempty,datetime=2006-01-02"`
	Category    string      `json:"category" gorm:"size:50;index" validate:"omitempty,max=50"`
	Thumbnail   string      `json:"thumbnail" gorm:"size:500" validate:"omitempty,url"`
	Trend       CourseTrend `json:"trend" gorm:"size:20;default:Stable" validate:"omitempty,oneof=Hot Growing 'Best Seller' New Stable"`

	// Roadmap is the ordered list of course steps shown to enrolled students.
	Roadmap datatypes.JSONSlice[string] `json:"roadmap" gorm:"type:jsonb"`

	// Enrolled is the denormalized enrollment counter, maintained by the
	// enrollment service inside the same transaction that creates the
	// enrollment row.
	Enrolled int `json:"enrolled" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

// StepCount returns the number of roadmap steps. Step indices are
// zero-based and valid in [0, StepCount).
func (c *Course) StepCount() int {
	return len(c.Roadmap)
}
