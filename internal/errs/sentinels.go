// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Every specific sentinel below wraps exactly one of them, so callers can
// branch on the kind with errors.Is without enumerating individual conditions.
var (
	// ErrBackendFailure indicates the storage backend reported an error.
	ErrBackendFailure = errors.New("backend failure")

	// ErrMissingPrerequisite indicates the cache lacks state an operation depends on.
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrMalformedState indicates cached or incoming data that cannot be interpreted.
	ErrMalformedState = errors.New("malformed state")
)

// ErrNotFound is returned by backends when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Missing prerequisites.
var (
	ErrCurrentUserMissing  = fmt.Errorf("current user: %w", ErrMissingPrerequisite)
	ErrMemberRoleMissing   = fmt.Errorf("member role: %w", ErrMissingPrerequisite)
	ErrGuildMissing        = fmt.Errorf("guild: %w", ErrMissingPrerequisite)
	ErrChannelMissing      = fmt.Errorf("channel: %w", ErrMissingPrerequisite)
	ErrMemberMissing       = fmt.Errorf("member: %w", ErrMissingPrerequisite)
	ErrEveryoneRoleMissing = fmt.Errorf("everyone role: %w", ErrMissingPrerequisite)
	ErrChannelGuildMissing = fmt.Errorf("channel guild id: %w", ErrMissingPrerequisite)
)

// Malformed state.
var (
	ErrBadTimeoutTimestamp            = fmt.Errorf("bad timeout timestamp: %w", ErrMalformedState)
	ErrPrivateChannelMissingRecipient = fmt.Errorf("private channel missing recipient: %w", ErrMalformedState)
)
