package auth

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Courses is the course repository.
type Courses interface {
	repository.Repository[*Course]
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Course, error)
	GetByInstructor(ctx context.Context, instructorID string) ([]*Course, error)
	DeleteByID(ctx context.Context, id string) error
}

// Modules is the module repository.
type Modules interface {
	repository.Repository[*Module]
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Module, error)
	GetByCourse(ctx context.Context, courseID string) ([]*Module, error)
	DeleteByID(ctx context.Context, id string) error
}

// Lessons is the lesson repository.
type Lessons interface {
	repository.Repository[*Lesson]
	GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Lesson, error)
	GetByModule(ctx context.Context, moduleID string) ([]*Lesson, error)
	DeleteByID(ctx context.Context, id string) error
}

type courses struct {
	repository.Repository[*Course]
	db *bun.DB
}

type modules struct {
	repository.Repository[*Module]
	db *bun.DB
}

type lessons struct {
	repository.Repository[*Lesson]
	db *bun.DB
}

var (
	_ Courses = (*courses)(nil)
	_ Modules = (*modules)(nil)
	_ Lessons = (*lessons)(nil)
)

func NewCoursesRepository(db *bun.DB) Courses {
	repo := repository.NewRepository[*Course](db, repository.ModelHandlers[*Course]{
		NewRecord: func() *Course { return &Course{} },
		GetID: func(c *Course) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Course, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &courses{Repository: repo, db: db}
}

func NewModulesRepository(db *bun.DB) Modules {
	repo := repository.NewRepository[*Module](db, repository.ModelHandlers[*Module]{
		NewRecord: func() *Module { return &Module{} },
		GetID: func(m *Module) uuid.UUID {
			if m == nil {
				return uuid.Nil
			}
			return m.ID
		},
		SetID: func(m *Module, id uuid.UUID) {
			if m != nil {
				m.ID = id
			}
		},
	})

	return &modules{Repository: repo, db: db}
}

func NewLessonsRepository(db *bun.DB) Lessons {
	repo := repository.NewRepository[*Lesson](db, repository.ModelHandlers[*Lesson]{
		NewRecord: func() *Lesson { return &Lesson{} },
		GetID: func(l *Lesson) uuid.UUID {
			if l == nil {
				return uuid.Nil
			}
			return l.ID
		},
		SetID: func(l *Lesson, id uuid.UUID) {
			if l != nil {
				l.ID = id
			}
		},
	})

	return &lessons{Repository: repo, db: db}
}

func (r *courses) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Course, error) {
	record := &Course{}
	if err := scanByID(ctx, r.db, record, id); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *courses) GetByInstructor(ctx context.Context, instructorID string) ([]*Course, error) {
	var records []*Course
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.instructor_id = ?", instructorID).
		Order("created_at ASC").
		Scan(ctx)
	return records, err
}

func (r *modules) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Module, error) {
	record := &Module{}
	if err := scanByID(ctx, r.db, record, id); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *modules) GetByCourse(ctx context.Context, courseID string) ([]*Module, error) {
	var records []*Module
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.course_id = ?", courseID).
		Order("position ASC").
		Scan(ctx)
	return records, err
}

func (r *lessons) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Lesson, error) {
	record := &Lesson{}
	if err := scanByID(ctx, r.db, record, id); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *lessons) GetByModule(ctx context.Context, moduleID string) ([]*Lesson, error) {
	var records []*Lesson
	err := r.db.NewSelect().Model(&records).
		Where("?TableAlias.module_id = ?", moduleID).
		Order("position ASC").
		Scan(ctx)
	return records, err
}

func (r *courses) DeleteByID(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, (*Course)(nil), id)
}

func (r *modules) DeleteByID(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, (*Module)(nil), id)
}

func (r *lessons) DeleteByID(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, (*Lesson)(nil), id)
}

// deleteByID soft-deletes through the model's deleted_at column.
func deleteByID(ctx context.Context, db *bun.DB, model any, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	res, err := db.NewDelete().Model(model).
		Where("?TableAlias.id = ?", uid).
		Exec(ctx)
	if err != nil {
		return err
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	return nil
}

func scanByID(ctx context.Context, db *bun.DB, model any, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id})
	}

	err = db.NewSelect().Model(model).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id})
		}
		return err
	}

	return nil
}

// resourceStore adapts the three hierarchy repositories to the ResourceStore
// contract the AccessResolver consumes.
type resourceStore struct {
	courses Courses
	modules Modules
	lessons Lessons
}

// NewResourceStore builds a ResourceStore over the hierarchy repositories.
func NewResourceStore(courses Courses, modules Modules, lessons Lessons) ResourceStore {
	return &resourceStore{
		courses: courses,
		modules: modules,
		lessons: lessons,
	}
}

func (s *resourceStore) GetCourse(ctx context.Context, id string) (*Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *resourceStore) GetModule(ctx context.Context, id string) (*Module, error) {
	return s.modules.GetByID(ctx, id)
}

func (s *resourceStore) GetLesson(ctx context.Context, id string) (*Lesson, error) {
	return s.lessons.GetByID(ctx, id)
}
