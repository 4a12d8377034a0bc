// Package attr provides slog attribute helpers so call sites stay terse and
// keys stay consistent across modules.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	sharedtypes "github.com/guildworks/pulse-bot/app/shared/types"
)

type correlationIDKey struct{}

func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

func Int(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Any(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

func Duration(key string, d time.Duration) slog.Attr {
	return slog.Duration(key, d)
}

func GuildID(key string, id sharedtypes.GuildID) slog.Attr {
	return slog.String(key, string(id))
}

func MemberID(key string, id sharedtypes.MemberID) slog.Attr {
	return slog.String(key, string(id))
}

// WithCorrelationID stores a correlation ID on the context for later
// extraction by ExtractCorrelationID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// ExtractCorrelationID returns the correlation_id attribute from the context,
// or an empty value when none was set.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok && id != "" {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}

// CorrelationIDFromMsg reads the correlation ID Watermill middleware attaches
// to message metadata.
func CorrelationIDFromMsg(msg *message.Message) slog.Attr {
	return slog.String("correlation_id", middleware.MessageCorrelationID(msg))
}
