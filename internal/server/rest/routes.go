package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	tasksBasePath = "/task"
	usersBasePath = "/user"
)

const requestTimeout = 60 * time.Second

func pathWithParam(basePath string, paramName string) string {
	return basePath + "/{" + paramName + "}"
}

// NewRouter builds the HTTP API. Public routes and routes acting on behalf of
// the caller live in separate groups; only the latter pass through
// Authenticate.
func NewRouter(h *Handlers, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	// public
	r.Group(func(r chi.Router) {
		r.Get("/", h.HandleRoot)
		r.Get("/healthz", MakeHandler(logger, h.HandleHealthCheck))
		r.Post("/register", MakeHandler(logger, h.HandleRegister))
		r.Post("/login", MakeHandler(logger, h.HandleLogin))
		r.Post(usersBasePath, MakeHandler(logger, h.HandleCreateUser))
		r.Get(usersBasePath, MakeHandler(logger, h.HandleGetUsers))
	})

	// caller-scoped
	r.Group(func(r chi.Router) {
		r.Use(Authenticate(h.users))

		r.Get(tasksBasePath, MakeHandler(logger, h.HandleGetTasks))
		r.Post(tasksBasePath, MakeHandler(logger, h.HandleCreateTask))
		r.Put(pathWithParam(tasksBasePath, paramTaskID), MakeHandler(logger, h.HandleUpdateTask))
		r.Delete(pathWithParam(tasksBasePath, paramTaskID), MakeHandler(logger, h.HandleDeleteTask))
		r.Delete(pathWithParam(usersBasePath, paramUserID), MakeHandler(logger, h.HandleDeleteUser))
	})

	return r
}
