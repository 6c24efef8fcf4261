package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/team-manager/handlers"
	"github.com/Dosada05/team-manager/middleware"
)

// Handlers собирает все HTTP-обработчики приложения.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Sport     *handlers.SportHandler
	Dashboard *handlers.DashboardHandler
	Player    *handlers.PlayerHandler
	Plan      *handlers.PlanHandler
	Record    *handlers.RecordHandler
	Food      *handlers.FoodHandler
	Upload    *handlers.UploadHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	Sessions       middleware.SessionLoader
	Logger         *slog.Logger
	AllowedOrigins []string
}

func SetupRoutes(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.Session(opts.Sessions, opts.Logger))
	router.Use(middleware.RequestLogger(opts.Logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/images/{name}", h.Upload.ServeImage)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(middleware.RequireUser).Get("/me", h.Auth.Me)
		})

		// Требуется только вход в систему
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			r.Get("/sports", h.Sport.GetAllSports)
			r.Post("/sports/{sportID}/select", h.Sport.SelectSport)
			r.Post("/sports/switch", h.Sport.SwitchSport)
		})

		// Требуется активный вид спорта
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSport)

			r.Get("/home", h.Dashboard.Home)
			r.Get("/dashboard", h.Dashboard.Dashboard)
			r.Get("/stats", h.Dashboard.Stats)

			r.Route("/players", func(r chi.Router) {
				r.Get("/", h.Player.ListPlayers)
				r.Post("/", h.Player.CreatePlayer)
				r.Post("/avatar", h.Player.UploadAvatar)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Player.GetPlayer)
					r.Put("/", h.Player.UpdatePlayer)
					r.Delete("/", h.Player.DeletePlayer)
					r.Put("/avatar", h.Player.ReplaceAvatar)
				})
			})

			r.Route("/plans", func(r chi.Router) {
				r.Get("/", h.Plan.ListPlans)
				r.Post("/", h.Plan.CreatePlan)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Plan.GetPlan)
					r.Put("/", h.Plan.UpdatePlan)
					r.Delete("/", h.Plan.DeletePlan)
				})
			})

			r.Route("/records", func(r chi.Router) {
				r.Get("/", h.Record.ListRecords)
				r.Post("/", h.Record.CreateRecord)
				r.Delete("/{id}", h.Record.DeleteRecord)
			})

			r.Route("/foods", func(r chi.Router) {
				r.Get("/", h.Food.ListFoods)
				r.Post("/recognize", h.Food.Recognize)
				r.Post("/calculate", h.Food.Calculate)
			})

			r.Route("/food-records", func(r chi.Router) {
				r.Get("/", h.Food.ListRecords)
				r.Post("/", h.Food.SaveRecord)
				r.Delete("/{id}", h.Food.DeleteRecord)
			})
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSport)

		r.Get("/uploads/*", h.Upload.ServeFile)
		r.Get("/ws", h.WebSocket.ServeWs)
	})

	return router
}
