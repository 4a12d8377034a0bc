package leaderboardservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/guildworks/pulse-bot/app/shared/attr"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// exportBatchSize pages through the store while building the workbook.
// It must not exceed MaxPageSize or GetStandings would clamp the page and the
// loop would skip rows.
const exportBatchSize = MaxPageSize

// ExportStandings renders the full guild leaderboard as an xlsx workbook for
// admin distribution.
func (s *LeaderboardService) ExportStandings(ctx context.Context, guildID sharedtypes.GuildID) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "ExportStandings", trace.WithAttributes(
		attribute.String("guild_id", guildID.String()),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, "ExportStandings")

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Leaderboard"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Rank", "Member ID", "Level", "XP"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("ExportStandings: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("ExportStandings: %w", err)
		}
	}

	row := 2
	for offset := 0; ; offset += exportBatchSize {
		page, err := s.GetStandings(ctx, guildID, offset, exportBatchSize)
		if err != nil {
			s.metrics.RecordOperationFailure(ctx, "ExportStandings")
			return nil, err
		}

		for _, entry := range page.Entries {
			values := []any{entry.Rank, string(entry.MemberID), int(entry.Level), int(entry.XP)}
			for col, value := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return nil, fmt.Errorf("ExportStandings: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, fmt.Errorf("ExportStandings: %w", err)
				}
			}
			row++
		}

		if offset+exportBatchSize >= page.TotalCount {
			break
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.metrics.RecordOperationFailure(ctx, "ExportStandings")
		return nil, fmt.Errorf("ExportStandings: failed to write workbook: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "ExportStandings")
	s.logger.InfoContext(ctx, "Exported leaderboard",
		attr.GuildID("guild_id", guildID),
		attr.Int("rows", row-2),
	)
	return buf.Bytes(), nil
}
