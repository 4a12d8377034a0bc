package leaderboard

import (
	"context"

	"github.com/uptrace/bun"

	leaderboardservice "github.com/guildworks/pulse-bot/app/modules/leaderboard/application"
	leaderboarddb "github.com/guildworks/pulse-bot/app/modules/leaderboard/infrastructure/repositories"
	"github.com/guildworks/pulse-bot/app/shared/observability"
)

// Module represents the leaderboard module. It is read-only; there is no
// router or scheduler to run.
type Module struct {
	Service leaderboardservice.Service
}

// NewModule creates a new instance of the leaderboard module.
func NewModule(ctx context.Context, obs *observability.Observability, db *bun.DB) *Module {
	obs.Provider.Logger.InfoContext(ctx, "Initializing leaderboard module")

	repo := leaderboarddb.NewRepository()
	service := leaderboardservice.NewLeaderboardService(
		repo,
		db,
		obs.Provider.Logger,
		obs.Registry.Metrics,
		obs.Registry.Tracer,
	)

	return &Module{Service: service}
}
