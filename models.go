package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle state of an account.
type UserStatus = string

const (
	// UserStatusActive is the initial state of every account.
	UserStatusActive UserStatus = "active"
	// UserStatusInactive blocks every authentication path for the account.
	UserStatusInactive UserStatus = "inactive"
)

// User is the account model. Name is an explicit nullable field; callers
// never probe for its presence, they check the pointer.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Name          *string    `bun:"name" json:"name,omitempty"`
	Phone         string     `bun:"phone_number" json:"phone_number,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	Status        UserStatus `bun:"status,notnull" json:"status,omitempty"`
	LastLoginAt   *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus normalizes legacy rows without a status column value.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	u.EnsureStatus()
	return u.Status == UserStatusActive
}

// DisplayName returns the optional name or the empty string.
func (u *User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}

// statusAuthError maps a status to the auth error login and refresh surface.
func statusAuthError(status UserStatus) error {
	switch status {
	case UserStatusActive, "":
		return nil
	default:
		return ErrAccountInactive
	}
}

func prepareUserDefaults(u *User) {
	if u == nil {
		return
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	u.EnsureStatus()
}

// Course is the top of the ownership chain; its instructor is the resolved
// owner for every module and lesson beneath it.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:crs"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	InstructorID  uuid.UUID  `bun:"instructor_id,notnull,type:uuid" json:"instructor_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Level         string     `bun:"level" json:"level,omitempty"`
	Price         float64    `bun:"price" json:"price,omitempty"`
	IsPublished   bool       `bun:"is_published" json:"is_published,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Module belongs to exactly one Course.
type Module struct {
	bun.BaseModel `bun:"table:modules,alias:mod"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	CourseID      uuid.UUID  `bun:"course_id,notnull,type:uuid" json:"course_id,omitempty"`
	Course        *Course    `bun:"rel:belongs-to,join:course_id=id" json:"course,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Position      int        `bun:"position" json:"position,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Lesson belongs to exactly one Module. Its effective owner is its module's
// course's instructor.
type Lesson struct {
	bun.BaseModel `bun:"table:lessons,alias:lsn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ModuleID      uuid.UUID  `bun:"module_id,notnull,type:uuid" json:"module_id,omitempty"`
	Module        *Module    `bun:"rel:belongs-to,join:module_id=id" json:"module,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Content       string     `bun:"content" json:"content,omitempty"`
	Position      int        `bun:"position" json:"position,omitempty"`
	Duration      int        `bun:"duration" json:"duration,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
