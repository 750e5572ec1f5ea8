package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ringside/fightcard/handlers"
	"github.com/ringside/fightcard/middleware"
	"github.com/ringside/fightcard/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes wires every handler onto the router. Reads are public,
// writes require a staff token, destructive operations require admin.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	eventHandler *handlers.EventHandler,
	registrationHandler *handlers.RegistrationHandler,
	bracketHandler *handlers.BracketHandler,
	boutHandler *handlers.BoutHandler,
	fightHandler *handlers.FightHandler,
	suspensionHandler *handlers.SuspensionHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	staffOnly := middleware.Authorize(models.RoleAdmin, models.RoleStaff)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{eventID}", eventHandler.GetByID)
		r.Get("/{eventID}/brackets", bracketHandler.ListByEvent)
		r.Get("/{eventID}/settings", eventHandler.GetSettings)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", eventHandler.Create)
			r.Put("/{eventID}", eventHandler.Update)
			r.Put("/{eventID}/settings", eventHandler.UpsertSettings)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Delete("/{eventID}", eventHandler.Delete)
		})
	})

	router.Route("/registrations", func(r chi.Router) {
		// Public: this is the entry point for fighters and trainers.
		r.Post("/", registrationHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Get("/", registrationHandler.List)
			r.Get("/{registrationID}", registrationHandler.GetByID)
			r.Patch("/{registrationID}/status", registrationHandler.UpdateStatus)
			r.Post("/{registrationID}/photo", registrationHandler.UploadPhoto)
			r.Delete("/{registrationID}", registrationHandler.Delete)
		})
	})

	router.Route("/brackets", func(r chi.Router) {
		r.Get("/{bracketID}", bracketHandler.GetByID)
		r.Get("/{bracketID}/bouts", boutHandler.ListByBracket)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", bracketHandler.Create)
			r.Put("/{bracketID}", bracketHandler.Update)
			r.Post("/{bracketID}/reset", bracketHandler.Reset)
			r.Post("/{bracketID}/bouts/generate", boutHandler.Generate)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Delete("/{bracketID}", bracketHandler.Delete)
		})
	})

	router.Route("/bouts", func(r chi.Router) {
		r.Get("/{boutID}", boutHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", boutHandler.Create)
			r.Delete("/{boutID}", boutHandler.Delete)
		})
	})

	router.Route("/fights", func(r chi.Router) {
		r.Get("/{fightID}", fightHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(staffOnly)

			r.Post("/", fightHandler.Record)
			r.Put("/{fightID}", fightHandler.Update)
			r.Delete("/{fightID}", fightHandler.Delete)
		})
	})

	router.Route("/suspensions", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(staffOnly)

		r.Get("/", suspensionHandler.List)
		r.Post("/", suspensionHandler.Create)
		r.Delete("/{suspensionID}", suspensionHandler.Delete)
	})

	router.Get("/ws/events/{eventID}", webSocketHandler.ServeWs)
}
