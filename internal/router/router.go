package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Rafuego/symphony-v3/internal/config"
	"github.com/Rafuego/symphony-v3/internal/handlers"
	"github.com/Rafuego/symphony-v3/internal/middleware"
	"github.com/Rafuego/symphony-v3/internal/notify"
	"github.com/Rafuego/symphony-v3/internal/plan"
	"github.com/Rafuego/symphony-v3/internal/repository/postgres"
	"github.com/Rafuego/symphony-v3/internal/service"
	"github.com/Rafuego/symphony-v3/internal/storage"
)

func New(log zerolog.Logger, db *pgxpool.Pool, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(httprate.LimitByIP(200, time.Minute))
	r.Use(middleware.WithAuth(log, cfg))

	// Health
	r.Get("/healthz", handlers.Health())

	// Repos + services
	clientRepo := postgres.NewClientRepo(db)
	requestRepo := postgres.NewRequestRepo(db)
	fileRepo := postgres.NewFileRepo(db)
	notificationRepo := postgres.NewNotificationRepo(db)

	catalog := plan.DefaultCatalog()
	slack := notify.NewSlack(cfg.SlackWebhook)
	store := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL)

	requestSvc := service.NewRequestService(clientRepo, requestRepo, notificationRepo, catalog, slack, log)
	clientSvc := service.NewClientService(clientRepo, requestRepo, catalog)
	authSvc := service.NewAuthService(clientRepo, cfg.SessionSecret, cfg.AdminPassword)

	rh := handlers.NewRequestHTTP(requestSvc, fileRepo)
	ch := handlers.NewClientHTTP(clientSvc)
	ah := handlers.NewAuthHTTP(authSvc)
	nh := handlers.NewNotificationHTTP(notificationRepo)
	uh := handlers.NewUploadHTTP(store)

	// Login
	r.Post("/api/client/verify", ah.VerifyClient())
	r.Post("/api/admin/verify", ah.VerifyAdmin())

	r.Route("/api/requests", func(r chi.Router) {
		r.With(middleware.RequireAuth).Post("/", rh.Create())
		r.With(middleware.RequireRoles("admin")).Get("/", rh.List())
		r.Post("/reorder", rh.Reorder())
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rh.Get())
			r.Patch("/", rh.Update())
			r.With(middleware.RequireRoles("admin")).Delete("/", rh.Delete())
			r.Post("/extension", rh.Extend())
			r.With(middleware.RequireRoles("admin")).Post("/files", rh.AddFile())
			r.With(middleware.RequireRoles("admin")).Delete("/files", rh.DeleteFile())
		})
	})

	r.Route("/api/clients", func(r chi.Router) {
		r.With(middleware.RequireRoles("admin")).Get("/", ch.List())
		r.With(middleware.RequireRoles("admin")).Post("/", ch.Create())
		r.Route("/{id}", func(r chi.Router) {
			r.With(middleware.RequireOwnClientOrRoles("admin")).Get("/", ch.Get())
			r.With(middleware.RequireRoles("admin")).Patch("/", ch.Update())
			r.With(middleware.RequireRoles("admin")).Delete("/", ch.Delete())
		})
	})

	r.Route("/api/notifications", func(r chi.Router) {
		r.Use(middleware.RequireRoles("admin"))
		r.Get("/", nh.List())
		r.Patch("/", nh.MarkRead())
		r.Delete("/", nh.Prune())
	})

	r.With(middleware.RequireAuth).Post("/api/upload", uh.Upload())

	// Stored upload bytes are served straight off disk.
	fs := http.StripPrefix(cfg.UploadBaseURL+"/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get(cfg.UploadBaseURL+"/*", fs.ServeHTTP)

	return r
}
