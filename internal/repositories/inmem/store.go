package inmem

import (
	"context"
	"sync"

	"github.com/stelle-edu/learning-service/internal/models"
	"github.com/stelle-edu/learning-service/internal/repositories"
)

// Store is an in-memory Repository backend used by tests and local
// development. All entity maps share one mutex.
type Store struct {
	mu sync.RWMutex

	courses       map[string]*models.Course
	users         map[string]*models.User
	enrollments   map[string]*models.Enrollment     // key: userID + "|" + courseID
	progress      map[string]*models.CourseProgress // key: courseID + "|" + userID
	chats         map[string]*models.ChatMessage
	notifications map[string]*models.Notification

	course       repositories.CourseRepository
	user         repositories.UserRepository
	enrollment   repositories.EnrollmentRepository
	progressRepo repositories.ProgressRepository
	chat         repositories.ChatRepository
	notification repositories.NotificationRepository
	dashboard    repositories.DashboardRepository
}

// NewStore creates an empty in-memory repository
func NewStore() *Store {
	s := &Store{
		courses:       make(map[string]*models.Course),
		users:         make(map[string]*models.User),
		enrollments:   make(map[string]*models.Enrollment),
		progress:      make(map[string]*models.CourseProgress),
		chats:         make(map[string]*models.ChatMessage),
		notifications: make(map[string]*models.Notification),
	}

	s.course = &CourseInmem{store: s}
	s.user = &UserInmem{store: s}
	s.enrollment = &EnrollmentInmem{store: s}
	s.progressRepo = &ProgressInmem{store: s}
	s.chat = &ChatInmem{store: s}
	s.notification = &NotificationInmem{store: s}
	s.dashboard = &DashboardInmem{store: s}

	return s
}

func enrollmentKey(userID, courseID string) string {
	return userID + "|" + courseID
}

func progressKey(courseID, userID string) string {
	return courseID + "|" + userID
}

func (s *Store) Course() repositories.CourseRepository             { return s.course }
func (s *Store) User() repositories.UserRepository                 { return s.user }
func (s *Store) Enrollment() repositories.EnrollmentRepository     { return s.enrollment }
func (s *Store) Progress() repositories.ProgressRepository         { return s.progressRepo }
func (s *Store) Chat() repositories.ChatRepository                 { return s.chat }
func (s *Store) Notification() repositories.NotificationRepository { return s.notification }
func (s *Store) Dashboard() repositories.DashboardRepository       { return s.dashboard }

// WithTransaction snapshots all entity maps, runs fn, and restores the
// snapshot when fn fails. Concurrent writers between snapshot and restore
// are not isolated; this backend is for tests and single-user dev runs.
func (s *Store) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	snapshot := s.snapshot()

	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}

	return nil
}

type storeSnapshot struct {
	courses       map[string]*models.Course
	users         map[string]*models.User
	enrollments   map[string]*models.Enrollment
	progress      map[string]*models.CourseProgress
	chats         map[string]*models.ChatMessage
	notifications map[string]*models.Notification
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := storeSnapshot{
		courses:       make(map[string]*models.Course, len(s.courses)),
		users:         make(map[string]*models.User, len(s.users)),
		enrollments:   make(map[string]*models.Enrollment, len(s.enrollments)),
		progress:      make(map[string]*models.CourseProgress, len(s.progress)),
		chats:         make(map[string]*models.ChatMessage, len(s.chats)),
		notifications: make(map[string]*models.Notification, len(s.notifications)),
	}

	for k, v := range s.courses {
		snap.courses[k] = cloneCourse(v)
	}
	for k, v := range s.users {
		snap.users[k] = cloneUser(v)
	}
	for k, v := range s.enrollments {
		snap.enrollments[k] = cloneEnrollment(v)
	}
	for k, v := range s.progress {
		snap.progress[k] = cloneProgress(v)
	}
	for k, v := range s.chats {
		snap.chats[k] = cloneChat(v)
	}
	for k, v := range s.notifications {
		snap.notifications[k] = cloneNotification(v)
	}

	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = snap.courses
	s.users = snap.users
	s.enrollments = snap.enrollments
	s.progress = snap.progress
	s.chats = snap.chats
	s.notifications = snap.notifications
}

// Ping always succeeds for the in-memory backend
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for the in-memory backend
func (s *Store) Close() error {
	return nil
}

// ===== CLONE HELPERS =====

func cloneCourse(c *models.Course) *models.Course {
	clone := *c
	clone.Roadmap = append(clone.Roadmap[:0:0], c.Roadmap...)
	clone.Enrollments = nil
	return &clone
}

func cloneUser(u *models.User) *models.User {
	clone := *u
	clone.Enrollments = nil
	if u.Password != nil {
		pw := *u.Password
		clone.Password = &pw
	}
	if u.AvatarURL != nil {
		av := *u.AvatarURL
		clone.AvatarURL = &av
	}
	return &clone
}

func cloneEnrollment(e *models.Enrollment) *models.Enrollment {
	clone := *e
	clone.User = models.User{}
	clone.Course = models.Course{}
	return &clone
}

func cloneProgress(p *models.CourseProgress) *models.CourseProgress {
	clone := *p
	clone.CompletedSteps = append(clone.CompletedSteps[:0:0], p.CompletedSteps...)
	clone.Course = models.Course{}
	clone.User = models.User{}
	return &clone
}

func cloneChat(m *models.ChatMessage) *models.ChatMessage {
	clone := *m
	clone.Course = models.Course{}
	clone.Sender = models.User{}
	return &clone
}

func cloneNotification(n *models.Notification) *models.Notification {
	clone := *n
	if n.TargetUserID != nil {
		id := *n.TargetUserID
		clone.TargetUserID = &id
	}
	if n.TargetCourseID != nil {
		id := *n.TargetCourseID
		clone.TargetCourseID = &id
	}
	return &clone
}

// ===== LIFECYCLE MANAGER =====

// Manager implements repositories.RepositoryManager for the in-memory
// backend.
type Manager struct {
	store *Store
}

func NewManager() repositories.RepositoryManager {
	return &Manager{}
}

func (m *Manager) Initialize() error {
	m.store = NewStore()
	return nil
}

func (m *Manager) GetRepository() repositories.Repository {
	return m.store
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) Shutdown(ctx context.Context) error {
	return m.store.Close()
}
