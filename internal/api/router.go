package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	"github.com/langchain-flow/engine/internal/api/handlers"
	"github.com/langchain-flow/engine/internal/api/middleware"
	"github.com/langchain-flow/engine/internal/api/validators"
	"github.com/langchain-flow/engine/internal/auth"
	"github.com/langchain-flow/engine/internal/repository"
	"github.com/langchain-flow/engine/internal/services"
	"github.com/langchain-flow/engine/pkg/config"
)

// Dependencies carries everything the router needs wired up.
type Dependencies struct {
	Config   *config.Config
	DB       *gorm.DB
	Tokens   *auth.TokenManager
	Queue    services.TaskEnqueuer
	Version  string
	Validate *validator.Validate
}

// NewRouter assembles the REST API: middleware chain, public auth routes
// and the JWT-protected resource groups.
func NewRouter(deps Dependencies) chi.Router {
	if deps.Validate == nil {
		deps.Validate = validators.New()
	}

	userRepo := repository.NewUserRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	runRepo := repository.NewRunRepository(deps.DB)
	logRepo := repository.NewLogRepository(deps.DB)
	graphRepo := repository.NewGraphRepository(deps.DB)
	costRepo := repository.NewCostRepository(deps.DB)
	artifactRepo := repository.NewArtifactRepository(deps.DB)
	integrationRepo := repository.NewIntegrationRepository(deps.DB)

	authService := services.NewAuthService(userRepo, deps.Tokens)
	projectService := services.NewProjectService(projectRepo)
	runService := services.NewRunService(runRepo, projectService, deps.Queue)
	costService := services.NewCostService(costRepo)

	authHandler := handlers.NewAuthHandler(authService, deps.Validate)
	projectsHandler := handlers.NewProjectsHandler(projectService, deps.Validate)
	runsHandler := handlers.NewRunsHandler(runService, costService, logRepo, graphRepo, artifactRepo, deps.Validate)
	logsHandler := handlers.NewLogsHandler(projectService, logRepo, deps.Validate)
	integrationsHandler := handlers.NewIntegrationsHandler(projectService, integrationRepo, deps.Validate)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Version)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(deps.Config.CORSOrigin))
	r.Use(middleware.RateLimit(100, 200))
	r.Use(chimw.Compress(5))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/docs/*", httpSwagger.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(deps.Tokens))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Tokens))

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectsHandler.List)
				r.Post("/", projectsHandler.Create)
				r.Get("/{id}", projectsHandler.Get)
				r.Put("/{id}", projectsHandler.Update)
				r.Delete("/{id}", projectsHandler.Delete)
			})

			r.Route("/runs", func(r chi.Router) {
				r.Get("/", runsHandler.List)
				r.Post("/", runsHandler.Create)
				r.Get("/{id}", runsHandler.Get)
				r.Post("/{id}/cancel", runsHandler.Cancel)
				r.Get("/{id}/logs", runsHandler.Logs)
				r.Post("/{id}/logs", runsHandler.CreateLog)
				r.Get("/{id}/graph", runsHandler.Graph)
				r.Post("/{id}/graph", runsHandler.UpdateGraph)
				r.Get("/{id}/costs", runsHandler.Costs)
				r.Post("/{id}/costs", runsHandler.CreateCost)
				r.Get("/{id}/costs/summary", runsHandler.CostSummary)
				r.Get("/{id}/artifacts", runsHandler.Artifacts)
				r.Post("/{id}/artifacts", runsHandler.CreateArtifact)
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", logsHandler.List)
				r.Post("/", logsHandler.Create)
			})

			r.Route("/integrations", func(r chi.Router) {
				r.Get("/", integrationsHandler.List)
				r.Post("/", integrationsHandler.Create)
				r.Get("/{id}", integrationsHandler.Get)
				r.Put("/{id}", integrationsHandler.Update)
				r.Delete("/{id}", integrationsHandler.Delete)
			})
		})
	})

	return r
}
