// Package gateway decodes Discord gateway dispatch frames into cache events.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/gateway"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/event"
)

// ErrNotDispatch is returned for frames that carry no event (heartbeats, hello, ...).
var ErrNotDispatch = errors.New("not a dispatch frame")

// Frame is a raw gateway payload. Its payload stays undecoded until Event, so frames
// that are not dispatches cost nothing.
type Frame struct {
	Op   gateway.Opcode    `json:"op"`
	Seq  *int              `json:"s"`
	Type gateway.EventType `json:"t"`
	Data json.RawMessage   `json:"d"`
}

// overrides decode the dispatches whose disgo payload drops state the cache keeps:
// private channels on READY, direct message channels, partial updates and bulk deletes.
var overrides = map[gateway.EventType]func(json.RawMessage) (any, error){
	gateway.EventTypeReady:             as[event.Ready],
	gateway.EventTypeChannelCreate:     as[event.Channel],
	gateway.EventTypeChannelUpdate:     as[event.Channel],
	gateway.EventTypeChannelDelete:     as[event.Channel],
	gateway.EventTypeGuildMemberUpdate: as[event.GuildMemberUpdate],
	gateway.EventTypeMessageUpdate:     as[event.MessageUpdate],
	gateway.EventTypeMessageDeleteBulk: as[event.MessageDeleteBulk],
}

func as[T any](d json.RawMessage) (any, error) {
	var v T
	if err := json.Unmarshal(d, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses one frame. Dispatches disgo does not model arrive as
// gateway.EventUnknown so they still reach the right partition.
func Decode(raw []byte) (event.Event, error) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return event.Event{}, fmt.Errorf("frame: %w: %v", errs.ErrMalformedState, err)
	}
	return f.Event()
}

// Event decodes the frame's payload.
func (f Frame) Event() (e event.Event, err error) {
	if f.Op != gateway.OpcodeDispatch {
		return event.Event{}, fmt.Errorf("op %d: %w", f.Op, ErrNotDispatch)
	}
	defer func() {
		// disgo type-asserts nested payloads, e.g. channels inside GUILD_CREATE
		if r := recover(); r != nil {
			e, err = event.Event{}, fmt.Errorf("%s: %w: %v", f.Type, errs.ErrMalformedState, r)
		}
	}()
	data, err := f.payload()
	if err != nil {
		return event.Event{}, fmt.Errorf("%s: %w: %v", f.Type, errs.ErrMalformedState, err)
	}
	return event.New(f.Type, data), nil
}

func (f Frame) payload() (any, error) {
	if dec, ok := overrides[f.Type]; ok {
		return dec(f.Data)
	}
	return gateway.UnmarshalEventData(f.Data, f.Type)
}
