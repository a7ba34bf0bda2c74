package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dlourenco/taskman/internal/api/middleware"
)

// RouterDeps are the wired handlers and middleware the router mounts.
type RouterDeps struct {
	UserHandler *UserHandler
	TaskHandler *TaskHandler
	AuthMw      *middleware.AuthMiddleware
}

// NewRouter builds the HTTP routing tree. Signup, login, and avatar
// reads are public; everything else requires an authenticated session.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", deps.UserHandler.SignUp)
		r.Post("/login", deps.UserHandler.LogIn)
		r.Get("/{id}/avatar", deps.UserHandler.GetAvatar)

		r.Group(func(r chi.Router) {
			r.Use(deps.AuthMw.Authenticate)
			r.Post("/logout", deps.UserHandler.LogOut)
			r.Post("/logoutAll", deps.UserHandler.LogOutAll)
			r.Get("/me", deps.UserHandler.GetProfile)
			r.Patch("/me", deps.UserHandler.UpdateProfile)
			r.Delete("/me", deps.UserHandler.DeleteAccount)
			r.Post("/me/avatar", deps.UserHandler.UploadAvatar)
			r.Delete("/me/avatar", deps.UserHandler.DeleteAvatar)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(deps.AuthMw.Authenticate)
		r.Post("/", deps.TaskHandler.Create)
		r.Get("/", deps.TaskHandler.List)
		r.Get("/{id}", deps.TaskHandler.Get)
		r.Patch("/{id}", deps.TaskHandler.Update)
		r.Delete("/{id}", deps.TaskHandler.Delete)
	})

	return r
}
