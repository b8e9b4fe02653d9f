package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SetUserStatusMessage deactivates or reactivates an account through the
// state machine, typically driven by an admin surface or a support tool.
type SetUserStatusMessage struct {
	UserID string     `json:"user_id"`
	Status UserStatus `json:"status"`
	Actor  ActorRef   `json:"-"`
}

func (e SetUserStatusMessage) Type() string { return "user.set_status" }

type SetUserStatusHandler struct {
	repo         RepositoryManager
	stateMachine UserStateMachine
}

// NewSetUserStatusHandler builds the status command handler; the state
// machine defaults to one backed by the users repository.
func NewSetUserStatusHandler(repo RepositoryManager, opts ...StateMachineOption) *SetUserStatusHandler {
	return &SetUserStatusHandler{
		repo:         repo,
		stateMachine: NewUserStateMachine(repo.Users(), opts...),
	}
}

func (h *SetUserStatusHandler) Execute(ctx context.Context, event SetUserStatusMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during status change",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SetUserStatusHandler) execute(ctx context.Context, event SetUserStatusMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByID(ctx, event.UserID)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return sentinelWithMetadata(ErrNotFound, map[string]any{"user_id": event.UserID})
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load user for status change")
	}

	if _, err := h.stateMachine.Transition(ctx, event.Actor, user, event.Status); err != nil {
		return err
	}

	return nil
}
