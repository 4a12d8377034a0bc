// Package api exposes the read-only HTTP surface: leaderboard pages, member
// progress, and the metrics/health endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guildworks/pulse-bot/api/handlers"
	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	leaderboardservice "github.com/guildworks/pulse-bot/app/modules/leaderboard/application"
)

// NewRouter builds the chi router for the read API.
func NewRouter(
	engagement engagementservice.Service,
	leaderboard leaderboardservice.Service,
	registry *prometheus.Registry,
	jwtSecret string,
) chi.Router {
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboard)
	progressHandler := handlers.NewProgressHandler(engagement)

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(BearerAuth(jwtSecret))
		}
		r.Get("/guilds/{guildID}/leaderboard", leaderboardHandler.GetStandings)
		r.Get("/guilds/{guildID}/leaderboard/export", leaderboardHandler.ExportStandings)
		r.Get("/guilds/{guildID}/members/{memberID}/progress", progressHandler.GetProgress)
	})

	return r
}
