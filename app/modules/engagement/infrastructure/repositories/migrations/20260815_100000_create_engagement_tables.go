package engagementmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	engagementdb "github.com/guildworks/pulse-bot/app/modules/engagement/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating member_progress and guild_engagement_config tables...")

		if _, err := db.NewCreateTable().Model((*engagementdb.MemberProgress)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateTable().Model((*engagementdb.GuildEngagementConfig)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}

		// Ranked leaderboard reads scan (guild_id) ordered by level, xp.
		_, err := db.NewRaw("CREATE INDEX IF NOT EXISTS idx_member_progress_ranking ON member_progress (guild_id, level DESC, xp DESC)").Exec(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Engagement tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping member_progress and guild_engagement_config tables...")

		if _, err := db.NewDropTable().Model((*engagementdb.GuildEngagementConfig)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewDropTable().Model((*engagementdb.MemberProgress)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Engagement tables dropped successfully!")
		return nil
	})
}
