// Package discordgateway is the NATS request/reply client for the Discord
// gateway process. It implements the directory and role collaborator
// interfaces the scoring engine consumes.
package discordgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"

	engagementservice "github.com/guildworks/pulse-bot/app/modules/engagement/application"
	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

const (
	subjectGuildsList     = "discord.guilds.list"
	subjectVoiceActive    = "discord.voice.active"
	subjectMemberExcluded = "discord.member.excluded"
	subjectRoleAdd        = "discord.role.add"
	subjectRoleRemove     = "discord.role.remove"

	requestTimeout = 5 * time.Second
)

// Client speaks NATS request/reply to the gateway.
type Client struct {
	nc *nats.Conn

	// roleLimiter keeps role mutations under the gateway's Discord API
	// budget.
	roleLimiter *rate.Limiter
}

var (
	_ engagementservice.GuildDirectory = (*Client)(nil)
	_ engagementservice.RoleManager    = (*Client)(nil)
)

// NewClient creates a gateway client on an existing NATS connection.
func NewClient(nc *nats.Conn) *Client {
	return &Client{
		nc:          nc,
		roleLimiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

type guildsListReply struct {
	GuildIDs []sharedtypes.GuildID `json:"guild_ids"`
}

type voiceActiveRequest struct {
	GuildID sharedtypes.GuildID `json:"guild_id"`
}

type voiceActiveReply struct {
	MemberIDs []sharedtypes.MemberID `json:"member_ids"`
}

type memberRequest struct {
	GuildID  sharedtypes.GuildID  `json:"guild_id"`
	MemberID sharedtypes.MemberID `json:"member_id"`
}

type memberExcludedReply struct {
	Excluded bool `json:"excluded"`
}

type roleRequest struct {
	GuildID  sharedtypes.GuildID    `json:"guild_id"`
	MemberID sharedtypes.MemberID   `json:"member_id"`
	RoleID   sharedtypes.TierRoleID `json:"role_id"`
}

type statusReply struct {
	// Status is "ok", "permission_denied", or "unknown_member".
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (c *Client) ListActiveGuilds(ctx context.Context) ([]sharedtypes.GuildID, error) {
	var reply guildsListReply
	if err := c.request(ctx, subjectGuildsList, nil, &reply); err != nil {
		return nil, fmt.Errorf("failed to list active guilds: %w", err)
	}
	return reply.GuildIDs, nil
}

func (c *Client) ListActiveVoiceMembers(ctx context.Context, guildID sharedtypes.GuildID) ([]sharedtypes.MemberID, error) {
	var reply voiceActiveReply
	if err := c.request(ctx, subjectVoiceActive, voiceActiveRequest{GuildID: guildID}, &reply); err != nil {
		return nil, fmt.Errorf("failed to list voice members for guild %s: %w", guildID, err)
	}
	return reply.MemberIDs, nil
}

func (c *Client) IsMemberExcluded(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID) (bool, error) {
	var reply memberExcludedReply
	if err := c.request(ctx, subjectMemberExcluded, memberRequest{GuildID: guildID, MemberID: memberID}, &reply); err != nil {
		return false, fmt.Errorf("failed to read exclusion state for member %s: %w", memberID, err)
	}
	return reply.Excluded, nil
}

func (c *Client) AddTierRole(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error {
	return c.mutateRole(ctx, subjectRoleAdd, roleRequest{GuildID: guildID, MemberID: memberID, RoleID: roleID})
}

func (c *Client) RemoveTierRole(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.MemberID, roleID sharedtypes.TierRoleID) error {
	return c.mutateRole(ctx, subjectRoleRemove, roleRequest{GuildID: guildID, MemberID: memberID, RoleID: roleID})
}

func (c *Client) mutateRole(ctx context.Context, subject string, req roleRequest) error {
	if err := c.roleLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("role mutation rate limit wait: %w", err)
	}

	var reply statusReply
	if err := c.request(ctx, subject, req, &reply); err != nil {
		return fmt.Errorf("role mutation request failed: %w", err)
	}

	switch reply.Status {
	case "ok":
		return nil
	case "permission_denied":
		return engagementservice.ErrRolePermissionDenied
	case "unknown_member":
		return engagementservice.ErrUnknownMember
	default:
		return fmt.Errorf("gateway rejected role mutation: %s", reply.Error)
	}
}

func (c *Client) request(ctx context.Context, subject string, req any, reply any) error {
	var (
		data []byte
		err  error
	)
	if req != nil {
		data, err = json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	msg, err := c.nc.RequestWithContext(ctx, subject, data)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return fmt.Errorf("gateway is not listening on %s: %w", subject, err)
		}
		return err
	}
	if err := json.Unmarshal(msg.Data, reply); err != nil {
		return fmt.Errorf("failed to unmarshal reply from %s: %w", subject, err)
	}
	return nil
}
