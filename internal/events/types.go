package events

// Topics
const (
	TopicEnrollments   = "learning.enrollments"
	TopicCatalog       = "learning.catalog"
	TopicNotifications = "learning.notifications"
	TopicBroadcasts    = "learning.broadcasts"
	TopicProgress      = "learning.progress"
)

// Event types
const (
	EventEnrollmentCompleted = "enrollment.completed"
	EventEnrollmentFailed    = "enrollment.failed"
	EventCourseCreated       = "course.created"
	EventCourseUpdated       = "course.updated"
	EventCourseDeleted       = "course.deleted"
	EventBroadcastSent       = "broadcast.sent"
	EventNotificationCreated = "notification.created"
	EventStepToggled         = "progress.step_toggled"
)

// EnrollmentEvent is the payload for enrollment lifecycle events.
type EnrollmentEvent struct {
	UserID      string  `json:"user_id"`
	CourseID    string  `json:"course_id"`
	CourseTitle string  `json:"course_title"`
	Price       float64 `json:"price"`
}

// CourseEvent is the payload for catalog lifecycle events.
type CourseEvent struct {
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	ActorID  string `json:"actor_id"`
}

// ProgressEvent is the payload for roadmap step toggles.
type ProgressEvent struct {
	UserID    string `json:"user_id"`
	CourseID  string `json:"course_id"`
	StepIndex int    `json:"step_index"`
	Completed bool   `json:"completed"`
}

// BroadcastEvent is the payload for broadcast messages.
type BroadcastEvent struct {
	MessageID string `json:"message_id"`
	CourseID  string `json:"course_id"`
	SenderID  string `json:"sender_id"`
}
