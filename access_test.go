package auth_test

import (
	"context"
	"testing"

	auth "github.com/edustack/go-lms-auth"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type hierarchy struct {
	store      *MockResourceStore
	instructor *auth.User
	other      *auth.User
	admin      *auth.User
	course     *auth.Course
	module     *auth.Module
	lesson     *auth.Lesson
}

func newHierarchy(t *testing.T) *hierarchy {
	t.Helper()

	instructor := &auth.User{ID: uuid.New(), Email: "owner@example.com", Role: auth.RoleInstructor, Status: auth.UserStatusActive}
	other := &auth.User{ID: uuid.New(), Email: "other@example.com", Role: auth.RoleInstructor, Status: auth.UserStatusActive}
	admin := &auth.User{ID: uuid.New(), Email: "admin@example.com", Role: auth.RoleAdmin, Status: auth.UserStatusActive}

	course := &auth.Course{ID: uuid.New(), InstructorID: instructor.ID, Title: "Distributed Systems"}
	module := &auth.Module{ID: uuid.New(), CourseID: course.ID, Title: "Consensus"}
	lesson := &auth.Lesson{ID: uuid.New(), ModuleID: module.ID, Title: "Raft"}

	store := new(MockResourceStore)
	store.On("GetCourse", mock.Anything, course.ID.String()).Return(course, nil).Maybe()
	store.On("GetModule", mock.Anything, module.ID.String()).Return(module, nil).Maybe()
	store.On("GetLesson", mock.Anything, lesson.ID.String()).Return(lesson, nil).Maybe()

	return &hierarchy{
		store:      store,
		instructor: instructor,
		other:      other,
		admin:      admin,
		course:     course,
		module:     module,
		lesson:     lesson,
	}
}

func TestResolveOwner(t *testing.T) {
	ctx := context.Background()
	h := newHierarchy(t)
	resolver := auth.NewAccessResolver(h.store)

	t.Run("course resolves its instructor", func(t *testing.T) {
		owner, err := resolver.ResolveOwner(ctx, auth.CourseRef(h.course.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, h.instructor.ID.String(), owner)
	})

	t.Run("module resolves through its course", func(t *testing.T) {
		owner, err := resolver.ResolveOwner(ctx, auth.ModuleRef(h.module.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, h.instructor.ID.String(), owner)
	})

	t.Run("lesson resolves through module and course", func(t *testing.T) {
		owner, err := resolver.ResolveOwner(ctx, auth.LessonRef(h.lesson.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, h.instructor.ID.String(), owner)
	})

	t.Run("missing resource is not found", func(t *testing.T) {
		missing := uuid.NewString()
		h.store.On("GetCourse", mock.Anything, missing).
			Return(nil, errors.New("record not found", errors.CategoryNotFound)).Once()

		owner, err := resolver.ResolveOwner(ctx, auth.CourseRef(missing))
		assert.Empty(t, owner)
		assert.True(t, auth.HasTextCode(err, "NOT_FOUND"))
	})

	t.Run("broken chain names the missing level", func(t *testing.T) {
		orphan := &auth.Module{ID: uuid.New(), CourseID: uuid.New(), Title: "Orphan"}
		h.store.On("GetModule", mock.Anything, orphan.ID.String()).Return(orphan, nil).Once()
		h.store.On("GetCourse", mock.Anything, orphan.CourseID.String()).
			Return(nil, errors.New("record not found", errors.CategoryNotFound)).Once()

		owner, err := resolver.ResolveOwner(ctx, auth.ModuleRef(orphan.ID.String()))
		assert.Empty(t, owner)
		assert.True(t, auth.HasTextCode(err, "NOT_FOUND"))
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := resolver.ResolveOwner(ctx, auth.ResourceRef{Kind: "assignment", ID: uuid.NewString()})
		assert.Error(t, err)
	})
}

func TestCanAct(t *testing.T) {
	ctx := context.Background()
	h := newHierarchy(t)
	resolver := auth.NewAccessResolver(h.store)

	t.Run("owner may mutate any level of the chain", func(t *testing.T) {
		assert.NoError(t, resolver.CanAct(ctx, h.instructor, auth.ActionUpdate, auth.CourseRef(h.course.ID.String())))
		assert.NoError(t, resolver.CanAct(ctx, h.instructor, auth.ActionDelete, auth.ModuleRef(h.module.ID.String())))
		assert.NoError(t, resolver.CanAct(ctx, h.instructor, auth.ActionUpdate, auth.LessonRef(h.lesson.ID.String())))
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		err := resolver.CanAct(ctx, h.other, auth.ActionUpdate, auth.LessonRef(h.lesson.ID.String()))
		assert.True(t, auth.HasTextCode(err, "UNAUTHORIZED"))
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		assert.NoError(t, resolver.CanAct(ctx, h.admin, auth.ActionDelete, auth.CourseRef(h.course.ID.String())))
	})

	t.Run("reads are never gated", func(t *testing.T) {
		student := &auth.User{ID: uuid.New(), Role: auth.RoleStudent, Status: auth.UserStatusActive}
		assert.NoError(t, resolver.CanAct(ctx, student, auth.ActionRead, auth.CourseRef(h.course.ID.String())))
	})

	t.Run("nil actor is denied", func(t *testing.T) {
		err := resolver.CanAct(ctx, nil, auth.ActionUpdate, auth.CourseRef(h.course.ID.String()))
		assert.True(t, auth.HasTextCode(err, "UNAUTHORIZED"))
	})

	t.Run("not found precedes denial, even for admins", func(t *testing.T) {
		missing := uuid.NewString()
		h.store.On("GetCourse", mock.Anything, missing).
			Return(nil, errors.New("record not found", errors.CategoryNotFound)).Twice()

		adminErr := resolver.CanAct(ctx, h.admin, auth.ActionDelete, auth.CourseRef(missing))
		otherErr := resolver.CanAct(ctx, h.other, auth.ActionDelete, auth.CourseRef(missing))

		assert.True(t, auth.HasTextCode(adminErr, "NOT_FOUND"))
		assert.True(t, auth.HasTextCode(otherErr, "NOT_FOUND"))
	})

	t.Run("create is checked against the parent", func(t *testing.T) {
		assert.NoError(t, resolver.CanAct(ctx, h.instructor, auth.ActionCreate, auth.CourseRef(h.course.ID.String())))

		err := resolver.CanAct(ctx, h.other, auth.ActionCreate, auth.ModuleRef(h.module.ID.String()))
		assert.True(t, auth.HasTextCode(err, "UNAUTHORIZED"))
	})
}

func TestDenialErrorsAreIsolated(t *testing.T) {
	ctx := context.Background()
	h := newHierarchy(t)
	resolver := auth.NewAccessResolver(h.store)

	t.Run("each denial carries its own metadata", func(t *testing.T) {
		lessonErr := resolver.CanAct(ctx, h.other, auth.ActionDelete, auth.LessonRef(h.lesson.ID.String()))
		courseErr := resolver.CanAct(ctx, h.other, auth.ActionUpdate, auth.CourseRef(h.course.ID.String()))

		var first, second *errors.Error
		require.ErrorAs(t, lessonErr, &first)
		require.ErrorAs(t, courseErr, &second)

		assert.NotSame(t, first, second)
		assert.Equal(t, auth.ResourceLesson, first.Metadata["kind"])
		assert.Equal(t, auth.ActionDelete, first.Metadata["action"])
		assert.Equal(t, auth.ResourceCourse, second.Metadata["kind"])
		assert.Equal(t, auth.ActionUpdate, second.Metadata["action"])
	})

	t.Run("each missing resource carries its own metadata", func(t *testing.T) {
		missingA := uuid.NewString()
		missingB := uuid.NewString()
		notFound := errors.New("record not found", errors.CategoryNotFound)
		h.store.On("GetCourse", mock.Anything, missingA).Return(nil, notFound).Once()
		h.store.On("GetCourse", mock.Anything, missingB).Return(nil, notFound).Once()

		errA := resolver.CanAct(ctx, h.other, auth.ActionDelete, auth.CourseRef(missingA))
		errB := resolver.CanAct(ctx, h.other, auth.ActionDelete, auth.CourseRef(missingB))

		var first, second *errors.Error
		require.ErrorAs(t, errA, &first)
		require.ErrorAs(t, errB, &second)

		assert.NotSame(t, first, second)
		assert.Equal(t, missingA, first.Metadata["id"])
		assert.Equal(t, missingB, second.Metadata["id"])
	})

	t.Run("shared errors never accumulate metadata", func(t *testing.T) {
		_ = resolver.CanAct(ctx, h.other, auth.ActionDelete, auth.LessonRef(h.lesson.ID.String()))
		assert.Empty(t, auth.ErrUnauthorized.Metadata)
		assert.Empty(t, auth.ErrNotFound.Metadata)
	})
}

func TestAllowed(t *testing.T) {
	ctx := context.Background()
	h := newHierarchy(t)
	resolver := auth.NewAccessResolver(h.store)

	t.Run("denial is a clean false", func(t *testing.T) {
		ok, err := resolver.Allowed(ctx, h.other, auth.ActionUpdate, auth.CourseRef(h.course.ID.String()))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ownership is a clean true", func(t *testing.T) {
		ok, err := resolver.Allowed(ctx, h.instructor, auth.ActionUpdate, auth.CourseRef(h.course.ID.String()))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("absence stays an error", func(t *testing.T) {
		missing := uuid.NewString()
		h.store.On("GetCourse", mock.Anything, missing).
			Return(nil, errors.New("record not found", errors.CategoryNotFound)).Once()

		ok, err := resolver.Allowed(ctx, h.other, auth.ActionDelete, auth.CourseRef(missing))
		assert.False(t, ok)
		assert.True(t, auth.HasTextCode(err, "NOT_FOUND"))
	})
}
