package engagementdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// ProgressDBImpl is the bun-backed Repository implementation.
type ProgressDBImpl struct{}

// NewRepository returns the bun-backed repository.
func NewRepository() Repository {
	return &ProgressDBImpl{}
}

func (r *ProgressDBImpl) GetProgress(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (*MemberProgress, error) {
	progress := new(MemberProgress)
	err := db.NewSelect().
		Model(progress).
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch progress for member %s in guild %s: %w", memberID, guildID, err)
	}
	return progress, nil
}

func (r *ProgressDBImpl) GetOrCreateProgress(ctx context.Context, db bun.IDB, seed *MemberProgress) (*MemberProgress, error) {
	_, err := db.NewInsert().
		Model(seed).
		On("CONFLICT (guild_id, member_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to lazily create progress row: %w", err)
	}

	// Re-read so callers always see the persisted state, whether the insert
	// won or an existing row was kept.
	return r.GetProgress(ctx, db, seed.GuildID, seed.MemberID)
}

func (r *ProgressDBImpl) UpdateProgress(ctx context.Context, db bun.IDB, progress *MemberProgress) error {
	expectedVersion := progress.Version
	progress.Version++
	progress.UpdatedAt = time.Now()

	res, err := db.NewUpdate().
		Model(progress).
		WherePK().
		Where("version = ?", expectedVersion).
		Exec(ctx)
	if err != nil {
		progress.Version = expectedVersion
		return fmt.Errorf("failed to update progress for member %s in guild %s: %w", progress.MemberID, progress.GuildID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		progress.Version = expectedVersion
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		progress.Version = expectedVersion
		return ErrVersionConflict
	}
	return nil
}

func (r *ProgressDBImpl) GetGuildConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*GuildEngagementConfig, error) {
	config := new(GuildEngagementConfig)
	err := db.NewSelect().
		Model(config).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch engagement config for guild %s: %w", guildID, err)
	}
	return config, nil
}
