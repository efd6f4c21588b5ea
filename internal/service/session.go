// Package service contains the event synchronizer that keeps a cache backend in step with
// the gateway stream and the permission resolver that reads it.
package service

import (
	"fmt"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/model"
)

// Session holds the state of the stream that is not stored in the backend: the current
// user, learned from READY. It is safe for concurrent use.
type Session struct {
	mu   sync.RWMutex
	user *model.CurrentUser
}

// NewSession returns a session with no current user.
func NewSession() *Session { return &Session{} }

// CurrentUser returns the current user or errs.ErrCurrentUserMissing before READY.
func (s *Session) CurrentUser() (model.CurrentUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.CurrentUser{}, errs.ErrCurrentUserMissing
	}
	return *s.user, nil
}

// SetCurrentUser replaces the current user.
func (s *Session) SetCurrentUser(u model.CurrentUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

var embedNamespace = uuid.Must(uuid.FromString("6f1c2a4e-3b8d-5e2f-9a71-0c4d8b2e7f15"))

// EmbedID returns the synthetic id of the embed at position within a message. The id is
// the same every time the message is applied and never shared between messages.
func EmbedID(messageID snowflake.ID, position int) uuid.UUID {
	return uuid.NewV5(embedNamespace, fmt.Sprintf("%d/%d", messageID, position))
}
