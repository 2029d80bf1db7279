package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	paramTaskID = "taskId"
	paramUserID = "userId"
)

const (
	msgInvalidPayload   = "Invalid request payload"
	msgEmailInUse       = "Email is already in use"
	msgBadCredentials   = "Email or password is incorrect"
	msgTaskNotFound     = "Task not found"
	msgUserNotFound     = "User not found"
	msgDeleteOwnAccount = "You can only delete your own account"
	msgUserCreated      = "User created successfully"
	msgLoginSuccess     = "Login Success"
	msgTaskCreated      = "Task created successfully"
	msgTaskUpdated      = "Task updated successfully"
	msgTaskDeleted      = "Task deleted successfully"
	msgUserDeleted      = "User deleted successfully"
	msgErrRegistering   = "Error registering user"
	msgErrLoggingIn     = "Error logging in"
	msgErrCreatingTask  = "Error creating task"
	msgErrUpdatingTask  = "Error updating task"
	msgErrDeletingTask  = "Error deleting task"
	msgErrFetchingTasks = "Error fetching tasks"
	msgErrCreatingUser  = "Error creating user"
	msgErrFetchingUsers = "Error fetching users"
	msgErrDeletingUser  = "Error deleting user"
	msgUnavailable      = "Service unavailable"
)

// UserService is the account logic the handlers depend on.
type UserService interface {
	TokenVerifier
	Register(ctx context.Context, email, password, username string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CreateUser(ctx context.Context, email, password, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, callerID, userID string) error
}

// TaskService is the task logic the handlers depend on.
type TaskService interface {
	Create(ctx context.Context, userID string, in models.TaskPatch) (*models.Task, error)
	Update(ctx context.Context, userID, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
	List(ctx context.Context, userID string) ([]*models.Task, error)
}

// Pinger reports database reachability; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	users  UserService
	tasks  TaskService
	db     Pinger
	logger logging.Logger
}

func NewHandlers(us UserService, ts TaskService, db Pinger, l logging.Logger) *Handlers {
	return &Handlers{users: us, tasks: ts, db: db, logger: l}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type taskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"dueDate"`
}

func (t taskRequest) patch() models.TaskPatch {
	return models.TaskPatch{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return ErrBadRequestWrap(msgInvalidPayload, err)
	}
	return nil
}

// serviceError translates a service error into the HTTPError for a route.
// notFound is the message used for common.ErrorNotFound and fallback the one
// used for unexpected failures.
func serviceError(err error, notFound, fallback string) error {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return ErrBadRequestWrap(ve.Message, err)
	case errors.Is(err, common.ErrorAlreadyExists):
		return ErrBadRequestWrap(msgEmailInUse, err)
	case errors.Is(err, common.ErrorUnauthorized):
		return ErrUnauthorizedWrap(msgBadCredentials, err)
	case errors.Is(err, common.ErrorForbidden):
		return ErrForbiddenWrap(msgDeleteOwnAccount, err)
	case errors.Is(err, common.ErrorNotFound):
		return ErrNotFoundWrap(notFound, err)
	default:
		return ErrInternalServerWrap(fallback, err)
	}
}

// callerID returns the authenticated user id. Routes using it are mounted
// behind Authenticate, so a missing id is a wiring error.
func callerID(r *http.Request) (string, error) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		return "", ErrUnauthorized(msgNoToken)
	}
	return id, nil
}

// pathID reads a uuid path parameter. Ids that cannot exist answer 404.
func pathID(r *http.Request, name, notFound string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrNotFoundWrap(notFound, err)
	}
	return id.String(), nil
}

func (h *Handlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(HeaderContentType, ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) error {
	if err := h.db.PingContext(r.Context()); err != nil {
		return NewHTTPErrorWrap(http.StatusServiceUnavailable, msgUnavailable, err)
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	token, err := h.users.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		return serviceError(err, msgUserNotFound, msgErrRegistering)
	}

	RespondWithJSON(w, http.StatusCreated, tokenResponse{Message: msgUserCreated, Token: token})
	return nil
}

func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return serviceError(err, msgUserNotFound, msgErrLoggingIn)
	}

	RespondWithJSON(w, http.StatusOK, tokenResponse{Message: msgLoginSuccess, Token: token})
	return nil
}

func (h *Handlers) HandleCreateTask(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(r.Context(), userID, req.patch())
	if err != nil {
		return serviceError(err, msgTaskNotFound, msgErrCreatingTask)
	}

	RespondWithJSON(w, http.StatusOK, dataResponse{Message: msgTaskCreated, Data: task})
	return nil
}

func (h *Handlers) HandleUpdateTask(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	taskID, err := pathID(r, paramTaskID, msgTaskNotFound)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	task, err := h.tasks.Update(r.Context(), userID, taskID, req.patch())
	if err != nil {
		return serviceError(err, msgTaskNotFound, msgErrUpdatingTask)
	}

	RespondWithJSON(w, http.StatusOK, dataResponse{Message: msgTaskUpdated, Data: task})
	return nil
}

func (h *Handlers) HandleDeleteTask(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}
	taskID, err := pathID(r, paramTaskID, msgTaskNotFound)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(r.Context(), userID, taskID); err != nil {
		return serviceError(err, msgTaskNotFound, msgErrDeletingTask)
	}

	RespondWithMessage(w, http.StatusOK, msgTaskDeleted)
	return nil
}

func (h *Handlers) HandleGetTasks(w http.ResponseWriter, r *http.Request) error {
	userID, err := callerID(r)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.List(r.Context(), userID)
	if err != nil {
		return serviceError(err, msgTaskNotFound, msgErrFetchingTasks)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	RespondWithJSON(w, http.StatusOK, tasks)
	return nil
}

func (h *Handlers) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}

	user, err := h.users.CreateUser(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		return serviceError(err, msgUserNotFound, msgErrCreatingUser)
	}

	RespondWithJSON(w, http.StatusCreated, dataResponse{Message: msgUserCreated, Data: user})
	return nil
}

func (h *Handlers) HandleGetUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		return serviceError(err, msgUserNotFound, msgErrFetchingUsers)
	}
	if users == nil {
		users = []*models.User{}
	}

	RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (h *Handlers) HandleDeleteUser(w http.ResponseWriter, r *http.Request) error {
	caller, err := callerID(r)
	if err != nil {
		return err
	}
	userID, err := pathID(r, paramUserID, msgUserNotFound)
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(r.Context(), caller, userID); err != nil {
		return serviceError(err, msgUserNotFound, msgErrDeletingUser)
	}

	RespondWithMessage(w, http.StatusOK, msgUserDeleted)
	return nil
}
