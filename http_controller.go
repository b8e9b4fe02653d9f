package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/edustack/go-lms-auth/middleware/jwtware"
)

// RouteRegistrar captures the router methods used by the controller.
type RouteRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Put(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Delete(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}

// HTTPController exposes the authentication flow and the guarded course
// hierarchy over JSON routes. Mutations pass through the access resolver;
// reads are served to any caller.
type HTTPController struct {
	auth   Authenticator
	access *AccessResolver
	repos  RepositoryManager
	routes *RouteAuthenticator
	cfg    Config
	logger Logger
}

func NewHTTPController(auth Authenticator, access *AccessResolver, repos RepositoryManager, routes *RouteAuthenticator, cfg Config) *HTTPController {
	return &HTTPController{
		auth:   auth,
		access: access,
		repos:  repos,
		routes: routes,
		cfg:    cfg,
		logger: defLogger{},
	}
}

func (c *HTTPController) WithLogger(logger Logger) *HTTPController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// RegisterRoutes mounts the auth endpoints and the course hierarchy.
func (c *HTTPController) RegisterRoutes(group RouteRegistrar) {
	protected := c.routes.ProtectedRoute(nil)

	group.Post("/auth/register", c.Register)
	group.Post("/auth/login", c.Login)
	group.Post("/auth/refresh", c.Refresh)
	group.Post("/auth/logout", c.Logout)
	group.Get("/auth/me", c.Me, protected)
	group.Post("/auth/password", c.ChangePassword, protected)

	group.Get("/courses/:id", c.GetCourse)
	group.Get("/courses/:id/modules", c.ListModules)
	group.Get("/modules/:id", c.GetModule)
	group.Get("/modules/:id/lessons", c.ListLessons)
	group.Get("/lessons/:id", c.GetLesson)

	group.Post("/courses", c.CreateCourse, protected)
	group.Put("/courses/:id", c.UpdateCourse, protected)
	group.Delete("/courses/:id", c.DeleteCourse, protected)
	group.Post("/courses/:id/modules", c.CreateModule, protected)
	group.Put("/modules/:id", c.UpdateModule, protected)
	group.Delete("/modules/:id", c.DeleteModule, protected)
	group.Post("/modules/:id/lessons", c.CreateLesson, protected)
	group.Put("/lessons/:id", c.UpdateLesson, protected)
	group.Delete("/lessons/:id", c.DeleteLesson, protected)
}

// RegisterPayload is the registration request body.
type RegisterPayload struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
	Role     string  `json:"role"`
}

func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 200)),
		validation.Field(&r.Role, validation.In("", RoleStudent, RoleInstructor, RoleAdmin)),
	)
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshPayload carries the refresh token for rotation and logout.
type RefreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

func (r RefreshPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

// PasswordChangePayload carries the replacement password.
type PasswordChangePayload struct {
	Password string `json:"password"`
}

func (r PasswordChangePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 200)),
	)
}

// CoursePayload is the course create/update body.
type CoursePayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Level       string  `json:"level"`
	Price       float64 `json:"price"`
	IsPublished bool    `json:"is_published"`
}

func (r CoursePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Min(0.0)),
	)
}

// ModulePayload is the module create/update body.
type ModulePayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func (r ModulePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Position, validation.Min(0)),
	)
}

// LessonPayload is the lesson create/update body.
type LessonPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Position    int    `json:"position"`
	Duration    int    `json:"duration"`
}

func (r LessonPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Position, validation.Min(0)),
		validation.Field(&r.Duration, validation.Min(0)),
	)
}

// Register creates a new account and returns it with its first token pair.
func (c *HTTPController) Register(ctx router.Context) error {
	payload := RegisterPayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	user, pair, err := c.auth.Register(ctx.Context(), RegisterInput{
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
		Name:     payload.Name,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

// Login verifies credentials and issues a fresh token pair.
func (c *HTTPController) Login(ctx router.Context) error {
	payload := LoginPayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	user, pair, err := c.auth.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"user":   user,
		"tokens": pair,
	})
}

// Refresh rotates a refresh token into a new pair.
func (c *HTTPController) Refresh(ctx router.Context) error {
	payload := RefreshPayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	pair, err := c.auth.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"tokens": pair})
}

// Logout invalidates the presented refresh token.
func (c *HTTPController) Logout(ctx router.Context) error {
	payload := RefreshPayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	if err := c.auth.Invalidate(ctx.Context(), payload.RefreshToken); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "logged_out"})
}

// Me resolves the account behind the presented access token.
func (c *HTTPController) Me(ctx router.Context) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"user": user})
}

// ChangePassword replaces the current account's password. The replacement
// goes through the full strength policy.
func (c *HTTPController) ChangePassword(ctx router.Context) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := PasswordChangePayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	if err := c.auth.ChangePassword(ctx.Context(), user.ID.String(), payload.Password); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "password_changed"})
}

func (c *HTTPController) GetCourse(ctx router.Context) error {
	course, err := c.repos.Courses().GetByID(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceCourse, ctx.Param("id"), err))
	}
	return ctx.JSON(router.StatusOK, map[string]any{"course": course})
}

func (c *HTTPController) ListModules(ctx router.Context) error {
	records, err := c.repos.Modules().GetByCourse(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"modules": records})
}

func (c *HTTPController) GetModule(ctx router.Context) error {
	module, err := c.repos.Modules().GetByID(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceModule, ctx.Param("id"), err))
	}
	return ctx.JSON(router.StatusOK, map[string]any{"module": module})
}

func (c *HTTPController) ListLessons(ctx router.Context) error {
	records, err := c.repos.Lessons().GetByModule(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, map[string]any{"lessons": records})
}

func (c *HTTPController) GetLesson(ctx router.Context) error {
	lesson, err := c.repos.Lessons().GetByID(ctx.Context(), ctx.Param("id"))
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceLesson, ctx.Param("id"), err))
	}
	return ctx.JSON(router.StatusOK, map[string]any{"lesson": lesson})
}

// CreateCourse creates a course owned by the acting instructor. Students
// cannot own courses.
func (c *HTTPController) CreateCourse(ctx router.Context) error {
	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if !RoleIsAtLeast(user.Role, RoleInstructor) {
		return RenderError(ctx, ErrUnauthorized)
	}

	payload := CoursePayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	course := &Course{
		ID:           uuid.New(),
		InstructorID: user.ID,
		Title:        payload.Title,
		Description:  payload.Description,
		Level:        payload.Level,
		Price:        payload.Price,
		IsPublished:  payload.IsPublished,
	}

	created, err := c.repos.Courses().Create(ctx.Context(), course)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{"course": created})
}

func (c *HTTPController) UpdateCourse(ctx router.Context) error {
	id := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionUpdate, CourseRef(id)); err != nil {
		return RenderError(ctx, err)
	}

	payload := CoursePayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	course, err := c.repos.Courses().GetByID(ctx.Context(), id)
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceCourse, id, err))
	}

	course.Title = payload.Title
	course.Description = payload.Description
	course.Level = payload.Level
	course.Price = payload.Price
	course.IsPublished = payload.IsPublished

	updated, err := c.repos.Courses().Update(ctx.Context(), course, repository.UpdateByID(id))
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"course": updated})
}

func (c *HTTPController) DeleteCourse(ctx router.Context) error {
	id := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionDelete, CourseRef(id)); err != nil {
		return RenderError(ctx, err)
	}

	if err := c.repos.Courses().DeleteByID(ctx.Context(), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

// CreateModule creates a module under a course. The ref names the parent
// course since the module does not exist yet.
func (c *HTTPController) CreateModule(ctx router.Context) error {
	courseID := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionCreate, CourseRef(courseID)); err != nil {
		return RenderError(ctx, err)
	}

	payload := ModulePayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	parent, err := uuid.Parse(courseID)
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceCourse, courseID, nil))
	}

	module := &Module{
		ID:          uuid.New(),
		CourseID:    parent,
		Title:       payload.Title,
		Description: payload.Description,
		Position:    payload.Position,
	}

	created, err := c.repos.Modules().Create(ctx.Context(), module)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{"module": created})
}

func (c *HTTPController) UpdateModule(ctx router.Context) error {
	id := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionUpdate, ModuleRef(id)); err != nil {
		return RenderError(ctx, err)
	}

	payload := ModulePayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	module, err := c.repos.Modules().GetByID(ctx.Context(), id)
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceModule, id, err))
	}

	module.Title = payload.Title
	module.Description = payload.Description
	module.Position = payload.Position

	updated, err := c.repos.Modules().Update(ctx.Context(), module, repository.UpdateByID(id))
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"module": updated})
}

func (c *HTTPController) DeleteModule(ctx router.Context) error {
	id := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionDelete, ModuleRef(id)); err != nil {
		return RenderError(ctx, err)
	}

	if err := c.repos.Modules().DeleteByID(ctx.Context(), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

// CreateLesson creates a lesson under a module; ownership resolves through
// the module's course.
func (c *HTTPController) CreateLesson(ctx router.Context) error {
	moduleID := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionCreate, ModuleRef(moduleID)); err != nil {
		return RenderError(ctx, err)
	}

	payload := LessonPayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	parent, err := uuid.Parse(moduleID)
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceModule, moduleID, nil))
	}

	lesson := &Lesson{
		ID:          uuid.New(),
		ModuleID:    parent,
		Title:       payload.Title,
		Description: payload.Description,
		Content:     payload.Content,
		Position:    payload.Position,
		Duration:    payload.Duration,
	}

	created, err := c.repos.Lessons().Create(ctx.Context(), lesson)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, map[string]any{"lesson": created})
}

func (c *HTTPController) UpdateLesson(ctx router.Context) error {
	id := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionUpdate, LessonRef(id)); err != nil {
		return RenderError(ctx, err)
	}

	payload := LessonPayload{}
	if err := c.bind(ctx, &payload); err != nil {
		return RenderError(ctx, err)
	}

	lesson, err := c.repos.Lessons().GetByID(ctx.Context(), id)
	if err != nil {
		return RenderError(ctx, notFoundFor(ResourceLesson, id, err))
	}

	lesson.Title = payload.Title
	lesson.Description = payload.Description
	lesson.Content = payload.Content
	lesson.Position = payload.Position
	lesson.Duration = payload.Duration

	updated, err := c.repos.Lessons().Update(ctx.Context(), lesson, repository.UpdateByID(id))
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{"lesson": updated})
}

func (c *HTTPController) DeleteLesson(ctx router.Context) error {
	id := ctx.Param("id")

	user, err := c.currentUser(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.access.CanAct(ctx.Context(), user, ActionDelete, LessonRef(id)); err != nil {
		return RenderError(ctx, err)
	}

	if err := c.repos.Lessons().DeleteByID(ctx.Context(), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "deleted"})
}

// currentUser re-resolves the account behind the request's access token,
// picking up status changes made after the token was minted.
func (c *HTTPController) currentUser(ctx router.Context) (*User, error) {
	raw, err := jwtware.ExtractRawTokenFromContext(
		ctx,
		jwtware.GetExtractors(c.cfg.GetTokenLookup(), c.cfg.GetAuthScheme()),
	)
	if err != nil {
		return nil, asUnauthenticated(err)
	}

	return c.auth.CurrentAccount(ctx.Context(), raw)
}

func (c *HTTPController) bind(ctx router.Context, payload interface{ Validate() error }) error {
	if err := ctx.Bind(payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid request body").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid request payload").
			WithCode(errors.CodeBadRequest)
	}

	return nil
}
