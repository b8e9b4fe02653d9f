package auth

import (
	"context"
	"database/sql"
	"errors"
	"log"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Courses() Courses
	Modules() Modules
	Lessons() Lessons
	ResourceStore() ResourceStore
}

type mngr struct {
	db      *bun.DB
	users   Users
	courses Courses
	modules Modules
	lessons Lessons
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:      db,
		users:   NewUsersRepository(db),
		courses: NewCoursesRepository(db),
		modules: NewModulesRepository(db),
		lessons: NewLessonsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.courses == nil {
		return errors.New("repository courses should be initialized")
	}

	if m.modules == nil {
		return errors.New("repository modules should be initialized")
	}

	if m.lessons == nil {
		return errors.New("repository lessons should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Courses() Courses {
	return m.courses
}

func (m mngr) Modules() Modules {
	return m.modules
}

func (m mngr) Lessons() Lessons {
	return m.lessons
}

func (m mngr) ResourceStore() ResourceStore {
	return NewResourceStore(m.courses, m.modules, m.lessons)
}
