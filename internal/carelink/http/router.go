package http

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/glucocare/carelink/internal/carelink/identity"
	"github.com/glucocare/carelink/internal/carelink/service"
	"github.com/glucocare/carelink/internal/carelink/store"
	"github.com/glucocare/carelink/pkg/httpx"
	"github.com/glucocare/carelink/pkg/slogx"

	_ "github.com/glucocare/carelink/api/carelink" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	identity     identity.Provider
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	InviteCodeService *service.InviteCodeService

	// Per-route rate limits, defaulting to the httpx profiles.
	IssueLimit  httpx.RateLimitConfig
	RedeemLimit httpx.RateLimitConfig
	ReadLimit   httpx.RateLimitConfig

	// TrustedProxies may set X-Forwarded-For for rate limiting.
	TrustedProxies []netip.Prefix
}

func NewRouter(
	id identity.Provider,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	requestTimeout time.Duration,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		identity:     id,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		IssueLimit:   httpx.IssueLimit,
		RedeemLimit:  httpx.RedeemLimit,
		ReadLimit:    httpx.ReadLimit,
	}

	// Set default middleware chain. CORS sits inside the logger so preflight
	// requests are logged too.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.CORS(httpx.DefaultCORS),
		httpx.Timeout(requestTimeout),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerInviteCodes()
	r.registerCaregivers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			CareLink Invite Code Service API
//	@version		0.1.0
//	@description	Issues patient invite codes (PAT-XXXXXX, valid for 30 calendar days) and links caregivers who redeem them.
//	@description
//	@description				Callers authenticate with an access token issued by the hosting platform.
//
//	@contact.name				GlucoCare Team
//	@contact.url				https://github.com/glucocare/carelink
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
//	@description				Platform access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerInviteCodes() {
	generateHandler := &InviteCodeGenerateHandler{InviteCodeService: r.InviteCodeService}
	listHandler := &InviteCodeListHandler{InviteCodeService: r.InviteCodeService}
	redeemHandler := &InviteCodeRedeemHandler{InviteCodeService: r.InviteCodeService}

	// POST /invite-codes - the handler resolves the bearer itself so the
	// service sees the raw credential; limited by IP ahead of that.
	r.Mux.Handle("POST /v1/invite-codes",
		httpx.Chain(generateHandler,
			httpx.RateLimitByIP(r.IssueLimit, r.TrustedProxies...),
		),
	)

	// GET /invite-codes - lenient rate limit by subject
	r.Mux.Handle("GET /v1/invite-codes",
		httpx.Chain(listHandler,
			httpx.AuthnMiddleware(r.identity),
			httpx.RateLimitBySubject(r.ReadLimit, r.TrustedProxies...),
		),
	)

	// POST /invite-codes/redeem - strict rate limit by subject (code guessing)
	r.Mux.Handle("POST /v1/invite-codes/redeem",
		httpx.Chain(redeemHandler,
			httpx.AuthnMiddleware(r.identity),
			httpx.RateLimitBySubject(r.RedeemLimit, r.TrustedProxies...),
		),
	)
}

func (r *Router) registerCaregivers() {
	h := &CaregiversHandler{InviteCodeService: r.InviteCodeService}

	r.Mux.Handle("GET /v1/caregivers",
		httpx.Chain(http.HandlerFunc(h.HandleListCaregivers),
			httpx.AuthnMiddleware(r.identity),
			httpx.RateLimitBySubject(r.ReadLimit, r.TrustedProxies...),
		),
	)
	r.Mux.Handle("GET /v1/patients",
		httpx.Chain(http.HandlerFunc(h.HandleListPatients),
			httpx.AuthnMiddleware(r.identity),
			httpx.RateLimitBySubject(r.ReadLimit, r.TrustedProxies...),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints are polled by the orchestrator; not rate limited.
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.identity))
}
