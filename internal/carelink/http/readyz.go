package http

import (
	"net/http"
	"time"

	"github.com/glucocare/carelink/internal/carelink/identity"
	"github.com/glucocare/carelink/internal/carelink/store"
	"github.com/glucocare/carelink/pkg/carelinksdk"
	"github.com/glucocare/carelink/pkg/httpx"
)

// readiness is implemented by identity providers that depend on remote key
// material.
type readiness interface {
	Ready() bool
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint returning service health status and checks for critical dependencies
//	@Description	Includes uptime, version, and status of the database and token verification
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	carelinksdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	carelinksdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	id identity.Provider,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &carelinksdk.HealthChecks{
			Database: "ok",
			Identity: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// Asymmetric verification is unusable until the JWKS has been fetched.
		if rc, ok := id.(readiness); ok && !rc.Ready() {
			checks.Identity = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, carelinksdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
