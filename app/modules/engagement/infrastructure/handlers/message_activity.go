package engagementhandlers

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	engagementevents "github.com/guildworks/pulse-bot/app/modules/engagement/domain/events"
	"github.com/guildworks/pulse-bot/app/shared/attr"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// HandleGuildMessageCreated scores one message event. Bot-authored messages
// never earn XP.
func (h *EngagementHandlers) HandleGuildMessageCreated(msg *message.Message) ([]*message.Message, error) {
	return wrapHandler(h, "HandleGuildMessageCreated", func(ctx context.Context, msg *message.Message, payload engagementevents.GuildMessageCreatedPayloadV1) ([]*message.Message, error) {
		if payload.AuthorIsBot {
			return nil, nil
		}

		result, err := h.service.ProcessActivity(ctx, payload.GuildID, payload.MemberID, sharedtypes.ActivityMessage, 1)
		if err != nil {
			// Returning the error makes the router retry; the whole call is
			// safe to re-run because no partial state committed.
			return nil, err
		}

		if result.CapReached {
			h.logger.DebugContext(ctx, "Message not counted, daily cap reached",
				attr.GuildID("guild_id", payload.GuildID),
				attr.MemberID("member_id", payload.MemberID),
			)
		}
		return nil, nil
	})(msg)
}
