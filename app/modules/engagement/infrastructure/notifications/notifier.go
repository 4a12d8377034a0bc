// Package notifications publishes engagement notifications on the event bus.
// The Discord gateway process subscribes and renders the embeds.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/guildworks/pulse-bot/app/eventbus"
	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	engagementevents "github.com/guildworks/pulse-bot/app/modules/engagement/domain/events"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

// BusNotifier implements the Notifier collaborator over the event bus.
type BusNotifier struct {
	bus eventbus.EventBus
}

var _ engagementservice.Notifier = (*BusNotifier)(nil)

// NewBusNotifier creates a bus-backed notifier.
func NewBusNotifier(bus eventbus.EventBus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

func (n *BusNotifier) NotifyLevelUp(_ context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, newLevel sharedtypes.Level) error {
	return n.publish(engagementevents.MemberLevelUpV1, engagementevents.MemberLevelUpPayloadV1{
		GuildID:  guildID,
		MemberID: memberID,
		NewLevel: newLevel,
	})
}

func (n *BusNotifier) NotifyStreakExtended(_ context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, streakLength int) error {
	return n.publish(engagementevents.MemberStreakExtendedV1, engagementevents.MemberStreakExtendedPayloadV1{
		GuildID:      guildID,
		MemberID:     memberID,
		StreakLength: streakLength,
	})
}

func (n *BusNotifier) publish(topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}
	return n.bus.Publish(topic, message.NewMessage(uuid.NewString(), data))
}
