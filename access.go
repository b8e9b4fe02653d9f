package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Action is the kind of operation an actor wants to perform on a resource.
type Action = string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ResourceKind identifies a level of the course hierarchy.
type ResourceKind = string

const (
	ResourceCourse ResourceKind = "course"
	ResourceModule ResourceKind = "module"
	ResourceLesson ResourceKind = "lesson"
)

// ResourceRef points at an existing resource. For create actions the ref
// names the parent the child will live under, since the child does not exist
// yet: creating a module refs its course, creating a lesson refs its module.
type ResourceRef struct {
	Kind ResourceKind
	ID   string
}

// CourseRef builds a ResourceRef for a course.
func CourseRef(id string) ResourceRef { return ResourceRef{Kind: ResourceCourse, ID: id} }

// ModuleRef builds a ResourceRef for a module.
func ModuleRef(id string) ResourceRef { return ResourceRef{Kind: ResourceModule, ID: id} }

// LessonRef builds a ResourceRef for a lesson.
func LessonRef(id string) ResourceRef { return ResourceRef{Kind: ResourceLesson, ID: id} }

// AccessResolver decides whether an actor may act on a target in the
// course/module/lesson hierarchy. The effective owner of any node is the
// instructor of the course at the top of its chain; the resolver always
// walks the full chain rather than trusting the immediate parent.
//
// Reads are deliberately not gated: only mutations carry ownership checks,
// matching the system's published behavior.
type AccessResolver struct {
	resources ResourceStore
	logger    Logger
}

// NewAccessResolver returns a resolver backed by the given resource store.
func NewAccessResolver(resources ResourceStore) *AccessResolver {
	return &AccessResolver{
		resources: resources,
		logger:    defLogger{},
	}
}

func (r *AccessResolver) WithLogger(logger Logger) *AccessResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ResolveOwner walks the ownership chain and returns the instructor id of
// the owning course. A broken chain returns ErrNotFound naming the missing
// level, before any ownership decision is possible.
func (r *AccessResolver) ResolveOwner(ctx context.Context, ref ResourceRef) (string, error) {
	switch ref.Kind {
	case ResourceCourse:
		return r.courseOwner(ctx, ref.ID)
	case ResourceModule:
		module, err := r.resources.GetModule(ctx, ref.ID)
		if err != nil || module == nil {
			return "", notFoundFor(ResourceModule, ref.ID, err)
		}
		return r.courseOwner(ctx, module.CourseID.String())
	case ResourceLesson:
		lesson, err := r.resources.GetLesson(ctx, ref.ID)
		if err != nil || lesson == nil {
			return "", notFoundFor(ResourceLesson, ref.ID, err)
		}
		module, err := r.resources.GetModule(ctx, lesson.ModuleID.String())
		if err != nil || module == nil {
			return "", notFoundFor(ResourceModule, lesson.ModuleID.String(), err)
		}
		return r.courseOwner(ctx, module.CourseID.String())
	default:
		return "", errors.New("unknown resource kind", errors.CategoryBadInput).
			WithMetadata(map[string]any{"kind": ref.Kind})
	}
}

// CanAct returns nil when the actor may perform the action on the target,
// ErrUnauthorized when denied, and ErrNotFound when the target chain is
// broken. Admins may always act; otherwise the actor must own the resolved
// chain. Read actions are never gated.
func (r *AccessResolver) CanAct(ctx context.Context, actor *User, action Action, ref ResourceRef) error {
	if actor == nil {
		return ErrUnauthorized
	}

	if action == ActionRead {
		return nil
	}

	owner, err := r.ResolveOwner(ctx, ref)
	if err != nil {
		return err
	}

	if actor.Role == RoleAdmin {
		return nil
	}

	if owner == actor.ID.String() {
		return nil
	}

	r.logger.Debug("access denied", "actor", actor.ID.String(), "action", action, "kind", ref.Kind, "id", ref.ID)

	return sentinelWithMetadata(ErrUnauthorized, map[string]any{
		"action": action,
		"kind":   ref.Kind,
	})
}

// Allowed is a boolean convenience over CanAct; a broken chain still
// surfaces as an error so absence stays distinguishable from denial.
func (r *AccessResolver) Allowed(ctx context.Context, actor *User, action Action, ref ResourceRef) (bool, error) {
	err := r.CanAct(ctx, actor, action, ref)
	if err == nil {
		return true, nil
	}
	if HasTextCode(err, textCodeUnauthorized) {
		return false, nil
	}
	return false, err
}

func (r *AccessResolver) courseOwner(ctx context.Context, courseID string) (string, error) {
	course, err := r.resources.GetCourse(ctx, courseID)
	if err != nil || course == nil {
		return "", notFoundFor(ResourceCourse, courseID, err)
	}
	return course.InstructorID.String(), nil
}

func notFoundFor(kind ResourceKind, id string, cause error) error {
	if cause != nil && !errors.IsNotFound(cause) {
		return errors.Wrap(cause, errors.CategoryInternal, "failed to load "+kind)
	}
	return sentinelWithMetadata(ErrNotFound, map[string]any{
		"kind": kind,
		"id":   id,
	})
}
