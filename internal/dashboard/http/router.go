package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/controller"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/internal/dashboard/view"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"

	_ "github.com/aussiebroadwan/ledger/api/dashboard" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	scopeRead  = "dashboard:read"
	scopeWrite = "dashboard:write"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metricsx.Metrics

	store          store.Store
	ClientService  *service.ClientService
	TaskService    *service.TaskService
	Pages          *controller.Registry
	Renderer       *view.Renderer
	OnboardingBase string
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	metrics *metricsx.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      metrics,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerClients()
	r.registerTasks()
	r.registerOnboarding()
	r.registerPages()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Ledger Dashboard API
//	@version		0.1.0
//	@description	Owner-scoped client and task records for a small business dashboard.
//	@description
//	@description				Every /v1 endpoint acts on the records of the token subject only.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/ledger
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern with request metrics labelled by pattern.
func (r *Router) handle(pattern string, h http.Handler) {
	r.Mux.Handle(pattern, r.metrics.Instrument(pattern)(h))
}

// secured wraps h with authentication, a scope check and a per-user limit.
func (r *Router) secured(h http.HandlerFunc, scope string, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RequireAnyScope(scope),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerClients() {
	h := &ClientsHandler{
		ClientService:  r.ClientService,
		OnboardingBase: r.OnboardingBase,
	}

	r.handle("GET /v1/clients", r.secured(h.HandleList, scopeRead, httpx.LenientLimit))
	r.handle("GET /v1/clients/{id}", r.secured(h.HandleGet, scopeRead, httpx.LenientLimit))
	r.handle("POST /v1/clients", r.secured(h.HandleCreate, scopeWrite, httpx.ModerateLimit))
	r.handle("PUT /v1/clients/{id}", r.secured(h.HandleUpdate, scopeWrite, httpx.ModerateLimit))
	r.handle("DELETE /v1/clients/{id}", r.secured(h.HandleDelete, scopeWrite, httpx.ModerateLimit))
	r.handle("POST /v1/clients/{id}/approval", r.secured(h.HandleApproval, scopeWrite, httpx.ModerateLimit))
	r.handle("GET /v1/onboarding-link", r.secured(h.HandleOnboardingLink, scopeRead, httpx.LenientLimit))
}

func (r *Router) registerTasks() {
	h := &TasksHandler{TaskService: r.TaskService}

	r.handle("GET /v1/tasks", r.secured(h.HandleList, scopeRead, httpx.LenientLimit))
	r.handle("POST /v1/tasks", r.secured(h.HandleCreate, scopeWrite, httpx.ModerateLimit))
	r.handle("PUT /v1/tasks/{id}", r.secured(h.HandleUpdate, scopeWrite, httpx.ModerateLimit))
	r.handle("PATCH /v1/tasks/{id}/status", r.secured(h.HandleStatus, scopeWrite, httpx.ModerateLimit))
	r.handle("DELETE /v1/tasks/{id}", r.secured(h.HandleDelete, scopeWrite, httpx.ModerateLimit))
}

func (r *Router) registerOnboarding() {
	// Public signup: strict limit by IP and owner.
	h := &OnboardHandler{ClientService: r.ClientService}
	r.handle("POST /onboard/{owner}",
		httpx.Chain(h,
			httpx.RateLimitMiddleware(httpx.StrictLimit,
				httpx.CompositeKeyExtractor("|", httpx.IPKeyExtractor, httpx.PathValueKeyExtractor("owner")),
			),
		),
	)
}

func (r *Router) registerPages() {
	h := &PagesHandler{Pages: r.Pages, Renderer: r.Renderer}

	// Pages accept the access_token cookie, so every form post goes
	// through the cross-origin guard.
	page := func(fn http.HandlerFunc, scope string, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(r.secured(fn, scope, limit), httpx.CrossOriginGuard())
	}

	r.handle("GET /clients", page(h.HandleClients, scopeRead, httpx.LenientLimit))
	r.handle("POST /clients", page(h.HandleClientSubmit, scopeWrite, httpx.ModerateLimit))
	r.handle("POST /clients/{id}/delete", page(h.HandleClientDelete, scopeWrite, httpx.ModerateLimit))
	r.handle("POST /clients/{id}/approval", page(h.HandleClientApproval, scopeWrite, httpx.ModerateLimit))
	r.handle("GET /tasks", page(h.HandleTasks, scopeRead, httpx.LenientLimit))
	r.handle("POST /tasks", page(h.HandleTaskSubmit, scopeWrite, httpx.ModerateLimit))
	r.handle("POST /tasks/{id}/status", page(h.HandleTaskStatus, scopeWrite, httpx.ModerateLimit))
	r.handle("POST /tasks/{id}/delete", page(h.HandleTaskDelete, scopeWrite, httpx.ModerateLimit))

	r.Mux.Handle("GET /{$}", http.RedirectHandler("/clients", http.StatusFound))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics",
			httpx.Chain(r.metrics.Handler(),
				httpx.RateLimitByIP(httpx.PublicLimit),
			),
		)
	}
}
