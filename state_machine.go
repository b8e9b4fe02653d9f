package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_USER_STATE_TRANSITION"

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid user state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// StatusUpdater persists account status changes.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, status UserStatus) (*User, error)
}

// UserStateMachine defines lifecycle operations for accounts. Active and
// inactive are the only states; there is no terminal state, deletion is a
// store-level concern outside this package.
type UserStateMachine interface {
	Transition(ctx context.Context, actor ActorRef, user *User, target UserStatus) (*User, error)
	Deactivate(ctx context.Context, actor ActorRef, user *User) (*User, error)
	Reactivate(ctx context.Context, actor ActorRef, user *User) (*User, error)
	CurrentStatus(user *User) UserStatus
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*userStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *userStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithStateMachineActivitySink sets the ActivitySink used to publish lifecycle events.
func WithStateMachineActivitySink(sink ActivitySink) StateMachineOption {
	return func(sm *userStateMachine) {
		sm.activitySink = normalizeActivitySink(sink)
	}
}

// WithStateMachineLogger overrides the logger used for sink failures.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *userStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// NewUserStateMachine returns the default implementation backed by the provided store.
func NewUserStateMachine(store StatusUpdater, opts ...StateMachineOption) UserStateMachine {
	sm := &userStateMachine{
		store: store,
		transitions: map[UserStatus]map[UserStatus]struct{}{
			UserStatusActive: {
				UserStatusInactive: {},
			},
			UserStatusInactive: {
				UserStatusActive: {},
			},
		},
		now:          time.Now,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

type userStateMachine struct {
	store        StatusUpdater
	transitions  map[UserStatus]map[UserStatus]struct{}
	now          func() time.Time
	activitySink ActivitySink
	logger       Logger
}

func (sm *userStateMachine) Transition(ctx context.Context, actor ActorRef, user *User, target UserStatus) (*User, error) {
	if user == nil {
		return nil, sentinelWithMetadata(ErrInvalidTransition, map[string]any{
			"target": target,
			"reason": "user is nil",
		})
	}

	user.EnsureStatus()
	from := user.Status

	if target == "" {
		return nil, sentinelWithMetadata(ErrInvalidTransition, map[string]any{
			"reason": "target status is empty",
		})
	}

	if from == target {
		return user, nil
	}

	if !sm.canTransition(from, target) {
		return nil, sentinelWithMetadata(ErrInvalidTransition, map[string]any{
			"from": from,
			"to":   target,
		})
	}

	updated, err := sm.store.UpdateStatus(ctx, user.ID.String(), target)
	if err != nil {
		return nil, err
	}

	if updated != nil && updated.Status != "" {
		user.Status = updated.Status
		user.UpdatedAt = updated.UpdatedAt
	} else {
		user.Status = target
		now := sm.now()
		user.UpdatedAt = &now
	}

	sm.recordActivity(ctx, ActivityEvent{
		EventType:  ActivityEventUserStatusChanged,
		Actor:      actor,
		UserID:     user.ID.String(),
		FromStatus: from,
		ToStatus:   target,
	})

	return user, nil
}

func (sm *userStateMachine) Deactivate(ctx context.Context, actor ActorRef, user *User) (*User, error) {
	return sm.Transition(ctx, actor, user, UserStatusInactive)
}

func (sm *userStateMachine) Reactivate(ctx context.Context, actor ActorRef, user *User) (*User, error) {
	return sm.Transition(ctx, actor, user, UserStatusActive)
}

func (sm *userStateMachine) CurrentStatus(user *User) UserStatus {
	if user == nil {
		return ""
	}
	user.EnsureStatus()
	return user.Status
}

func (sm *userStateMachine) canTransition(from, to UserStatus) bool {
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

func (sm *userStateMachine) recordActivity(ctx context.Context, event ActivityEvent) {
	if event.Actor == (ActorRef{}) {
		event.Actor = ActorRef{Type: "system"}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = sm.now()
	}

	sink := normalizeActivitySink(sm.activitySink)
	if err := sink.Record(ctx, event); err != nil {
		sm.logger.Warn("state machine activity sink error: %v", err)
	}
}
