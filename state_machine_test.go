package auth_test

import (
	"context"
	"testing"
	"time"

	auth "github.com/edustack/go-lms-auth"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStateMachineTransition(t *testing.T) {
	ctx := context.Background()
	actor := auth.ActorRef{ID: uuid.NewString(), Type: "admin"}

	t.Run("active to inactive", func(t *testing.T) {
		store := new(MockStatusUpdater)
		sink := &recordingSink{}
		sm := auth.NewUserStateMachine(store, auth.WithStateMachineActivitySink(sink))

		user := &auth.User{ID: uuid.New(), Status: auth.UserStatusActive}
		store.On("UpdateStatus", ctx, user.ID.String(), auth.UserStatusInactive).
			Return(&auth.User{ID: user.ID, Status: auth.UserStatusInactive}, nil).Once()

		updated, err := sm.Deactivate(ctx, actor, user)

		require.NoError(t, err)
		assert.Equal(t, auth.UserStatusInactive, updated.Status)

		events := sink.Events()
		require.Len(t, events, 1)
		assert.Equal(t, auth.ActivityEventUserStatusChanged, events[0].EventType)
		assert.Equal(t, auth.UserStatusActive, events[0].FromStatus)
		assert.Equal(t, auth.UserStatusInactive, events[0].ToStatus)
	})

	t.Run("inactive back to active", func(t *testing.T) {
		store := new(MockStatusUpdater)
		sm := auth.NewUserStateMachine(store)

		user := &auth.User{ID: uuid.New(), Status: auth.UserStatusInactive}
		store.On("UpdateStatus", ctx, user.ID.String(), auth.UserStatusActive).
			Return(&auth.User{ID: user.ID, Status: auth.UserStatusActive}, nil).Once()

		updated, err := sm.Reactivate(ctx, actor, user)

		require.NoError(t, err)
		assert.Equal(t, auth.UserStatusActive, updated.Status)
	})

	t.Run("same-state transition is a no-op", func(t *testing.T) {
		store := new(MockStatusUpdater)
		sm := auth.NewUserStateMachine(store)

		user := &auth.User{ID: uuid.New(), Status: auth.UserStatusActive}
		updated, err := sm.Transition(ctx, actor, user, auth.UserStatusActive)

		require.NoError(t, err)
		assert.Equal(t, auth.UserStatusActive, updated.Status)
		store.AssertNotCalled(t, "UpdateStatus", ctx, user.ID.String(), auth.UserStatusActive)
	})

	t.Run("unknown target is rejected", func(t *testing.T) {
		store := new(MockStatusUpdater)
		sm := auth.NewUserStateMachine(store)

		user := &auth.User{ID: uuid.New(), Status: auth.UserStatusActive}
		_, err := sm.Transition(ctx, actor, user, "archived")

		assert.True(t, auth.HasTextCode(err, "INVALID_USER_STATE_TRANSITION"))
	})

	t.Run("nil user is rejected", func(t *testing.T) {
		sm := auth.NewUserStateMachine(new(MockStatusUpdater))
		_, err := sm.Transition(ctx, actor, nil, auth.UserStatusInactive)
		assert.True(t, auth.HasTextCode(err, "INVALID_USER_STATE_TRANSITION"))
	})

	t.Run("empty target is rejected", func(t *testing.T) {
		sm := auth.NewUserStateMachine(new(MockStatusUpdater))
		user := &auth.User{ID: uuid.New(), Status: auth.UserStatusActive}
		_, err := sm.Transition(ctx, actor, user, "")
		assert.True(t, auth.HasTextCode(err, "INVALID_USER_STATE_TRANSITION"))
	})

	t.Run("store result wins over the requested target", func(t *testing.T) {
		store := new(MockStatusUpdater)
		now := time.Now()
		sm := auth.NewUserStateMachine(store, auth.WithStateMachineClock(func() time.Time { return now }))

		user := &auth.User{ID: uuid.New(), Status: auth.UserStatusActive}
		store.On("UpdateStatus", ctx, user.ID.String(), auth.UserStatusInactive).
			Return(nil, nil).Once()

		updated, err := sm.Transition(ctx, actor, user, auth.UserStatusInactive)

		require.NoError(t, err)
		assert.Equal(t, auth.UserStatusInactive, updated.Status)
		require.NotNil(t, updated.UpdatedAt)
		assert.Equal(t, now, *updated.UpdatedAt)
	})
}

func TestInvalidTransitionErrorsAreIsolated(t *testing.T) {
	ctx := context.Background()
	actor := auth.ActorRef{ID: uuid.NewString(), Type: "admin"}
	store := new(MockStatusUpdater)
	sm := auth.NewUserStateMachine(store)

	user := &auth.User{ID: uuid.New(), Status: auth.UserStatusActive}

	_, errUnknown := sm.Transition(ctx, actor, user, "banned")
	_, errEmpty := sm.Transition(ctx, actor, user, "")

	var first, second *errors.Error
	require.ErrorAs(t, errUnknown, &first)
	require.ErrorAs(t, errEmpty, &second)

	assert.NotSame(t, first, second)
	assert.Equal(t, auth.UserStatusActive, first.Metadata["from"])
	assert.Equal(t, auth.UserStatus("banned"), first.Metadata["to"])
	assert.Equal(t, "target status is empty", second.Metadata["reason"])
	assert.NotContains(t, second.Metadata, "from")

	assert.Empty(t, auth.ErrInvalidTransition.Metadata)
}

func TestCurrentStatus(t *testing.T) {
	sm := auth.NewUserStateMachine(new(MockStatusUpdater))

	assert.Equal(t, auth.UserStatusActive, sm.CurrentStatus(&auth.User{Status: auth.UserStatusActive}))
	assert.Equal(t, auth.UserStatusActive, sm.CurrentStatus(&auth.User{}))
	assert.Equal(t, "", sm.CurrentStatus(nil))
}
