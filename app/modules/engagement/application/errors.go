package engagementservice

import "errors"

var (
	// ErrInvalidAmount rejects non-positive unit counts.
	ErrInvalidAmount = errors.New("activity amount must be positive")

	// ErrInvalidActivityKind rejects unknown activity kinds.
	ErrInvalidActivityKind = errors.New("unknown activity kind")

	// ErrRolePermissionDenied is returned by RoleManager implementations when
	// the bot lacks the manage-roles permission. Non-fatal: scoring has
	// already committed when tier assignment runs.
	ErrRolePermissionDenied = errors.New("missing permission to manage tier roles")

	// ErrUnknownMember is returned by gateway-facing collaborators when the
	// member is no longer part of the guild. Side effects are skipped
	// silently in that case.
	ErrUnknownMember = errors.New("member not found in guild")
)
