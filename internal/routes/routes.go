package routes

import (
	"net/http"
	"path/filepath"

	"minbar/internal/guard"
	"minbar/internal/handlers"
	"minbar/internal/middleware"
	"minbar/internal/models"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

const termKinds = "{kind:authors|categories|tags|places}"

type Options struct {
	SessionCookie string
	PagesDir      string
	Guard         guard.Options
}

func InitRoutes(
	router *mux.Router,
	opts Options,
	sessions middleware.SessionParser,
	users middleware.UserLookup,
	authHandler *handlers.AuthHandler,
	passwordHandler *handlers.PasswordHandler,
	taxonomyHandler *handlers.TaxonomyHandler,
	catalogHandler *handlers.CatalogHandler,
	uploadHandler *handlers.UploadHandler,
) {
	router.Use(middleware.RequestID, middleware.Logging, middleware.Recoverer)
	router.Use(middleware.SessionLoader(sessions, opts.SessionCookie))

	api := router.PathPrefix("/api").Subrouter()

	// --- public ---
	api.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/session", authHandler.Session).Methods(http.MethodGet)

	api.HandleFunc("/password/forgot", passwordHandler.Forgot).Methods(http.MethodPost)
	api.HandleFunc("/users/password-reset/{token}", passwordHandler.Verify).Methods(http.MethodGet)
	api.HandleFunc("/users/password-reset/{token}", passwordHandler.Redeem).Methods(http.MethodPost)

	api.HandleFunc("/books", catalogHandler.ListBooks).Methods(http.MethodGet)
	api.HandleFunc("/books/{slug}", catalogHandler.GetBookBySlug).Methods(http.MethodGet)
	api.HandleFunc("/videos", catalogHandler.ListVideos).Methods(http.MethodGet)
	api.HandleFunc("/videos/{slug}", catalogHandler.GetVideoBySlug).Methods(http.MethodGet)
	api.HandleFunc("/search", catalogHandler.Search).Methods(http.MethodGet)
	api.HandleFunc("/"+termKinds, taxonomyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/"+termKinds+"/{slug}", taxonomyHandler.GetBySlug).Methods(http.MethodGet)

	router.HandleFunc("/uploads/{name}", uploadHandler.Serve).Methods(http.MethodGet, http.MethodHead)

	// --- any signed-in user ---
	signedIn := api.PathPrefix("").Subrouter()
	signedIn.Use(middleware.RequireSession)
	signedIn.HandleFunc("/users/{id}/password-reset", passwordHandler.IssueForUser).Methods(http.MethodPost)

	// --- back office ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireSession, middleware.RequireRole(models.RoleAdmin, users))

	admin.HandleFunc("/me", authHandler.Me).Methods(http.MethodGet)
	admin.HandleFunc("/me", authHandler.UpdateMe).Methods(http.MethodPatch)

	admin.HandleFunc("/books", catalogHandler.AdminListBooks).Methods(http.MethodGet)
	admin.HandleFunc("/books", catalogHandler.CreateBook).Methods(http.MethodPost)
	admin.HandleFunc("/books/{id:[0-9]+}", catalogHandler.GetBook).Methods(http.MethodGet)
	admin.HandleFunc("/books/{id:[0-9]+}", catalogHandler.UpdateBook).Methods(http.MethodPut)
	admin.HandleFunc("/books/{id:[0-9]+}", catalogHandler.DeleteBook).Methods(http.MethodDelete)

	admin.HandleFunc("/videos", catalogHandler.AdminListVideos).Methods(http.MethodGet)
	admin.HandleFunc("/videos", catalogHandler.CreateVideo).Methods(http.MethodPost)
	admin.HandleFunc("/videos/{id:[0-9]+}", catalogHandler.GetVideo).Methods(http.MethodGet)
	admin.HandleFunc("/videos/{id:[0-9]+}", catalogHandler.UpdateVideo).Methods(http.MethodPut)
	admin.HandleFunc("/videos/{id:[0-9]+}", catalogHandler.DeleteVideo).Methods(http.MethodDelete)

	admin.HandleFunc("/uploads", uploadHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/uploads", uploadHandler.Upload).Methods(http.MethodPost)
	admin.HandleFunc("/uploads/{name}", uploadHandler.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/"+termKinds, taxonomyHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/"+termKinds+"/{id:[0-9]+}", taxonomyHandler.Get).Methods(http.MethodGet)
	admin.HandleFunc("/"+termKinds+"/{id:[0-9]+}", taxonomyHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/"+termKinds+"/{id:[0-9]+}", taxonomyHandler.Delete).Methods(http.MethodDelete)

	managers := admin.PathPrefix("/users").Subrouter()
	managers.Use(middleware.RequireRole(models.RoleManager, users))
	managers.HandleFunc("", authHandler.ListUsers).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	if opts.PagesDir != "" {
		initPages(router, opts)
	}
}

// initPages serves the static front end with the page guard in front of
// protected and guest-only pages.
func initPages(router *mux.Router, opts Options) {
	page := func(name string) http.HandlerFunc {
		p := filepath.Join(opts.PagesDir, filepath.FromSlash(name))
		return func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, p)
		}
	}
	files := http.FileServer(http.Dir(opts.PagesDir))

	guestOnly := router.PathPrefix("/auth").Subrouter()
	guestOnly.Use(middleware.PageGuard(guard.GuestOnly, opts.Guard))
	guestOnly.HandleFunc("/login", page("auth/login.html")).Methods(http.MethodGet)
	guestOnly.HandleFunc("/register", page("auth/register.html")).Methods(http.MethodGet)
	guestOnly.HandleFunc("/forgot-password", page("auth/forgot-password.html")).Methods(http.MethodGet)

	// The reset link must open whether or not the visitor is signed in.
	router.HandleFunc("/auth/password-reset/{token}", page("auth/password-reset.html")).Methods(http.MethodGet)

	protected := router.PathPrefix("/admin").Subrouter()
	protected.Use(middleware.PageGuard(guard.Protected, opts.Guard))
	protected.PathPrefix("/assets/").Handler(files)
	protected.PathPrefix("").HandlerFunc(page("admin/index.html"))

	router.PathPrefix("/").Handler(files)
}
