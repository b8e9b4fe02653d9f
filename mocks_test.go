package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/edustack/go-lms-auth"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements auth.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockAccountStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	created, _ := args.Get(0).(*auth.User)
	return created, args.Error(1)
}

func (m *MockAccountStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAccountStore) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockResourceStore implements auth.ResourceStore
type MockResourceStore struct {
	mock.Mock
}

func (m *MockResourceStore) GetCourse(ctx context.Context, id string) (*auth.Course, error) {
	args := m.Called(ctx, id)
	course, _ := args.Get(0).(*auth.Course)
	return course, args.Error(1)
}

func (m *MockResourceStore) GetModule(ctx context.Context, id string) (*auth.Module, error) {
	args := m.Called(ctx, id)
	module, _ := args.Get(0).(*auth.Module)
	return module, args.Error(1)
}

func (m *MockResourceStore) GetLesson(ctx context.Context, id string) (*auth.Lesson, error) {
	args := m.Called(ctx, id)
	lesson, _ := args.Get(0).(*auth.Lesson)
	return lesson, args.Error(1)
}

// MockStatusUpdater implements auth.StatusUpdater
type MockStatusUpdater struct {
	mock.Mock
}

func (m *MockStatusUpdater) UpdateStatus(ctx context.Context, id string, status auth.UserStatus) (*auth.User, error) {
	args := m.Called(ctx, id, status)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

// recordingSink collects activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func newTestConfig() *auth.SimpleConfig {
	return &auth.SimpleConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		Issuer:          "test-issuer",
		Audience:        []string{"test:audience"},
	}
}
