package gateway

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/event"
)

// maxFrame bounds one line; GUILD_CREATE for large guilds runs to several megabytes.
const maxFrame = 64 << 20

// Stream reads newline-delimited frames from r and sends the decoded events to out, in
// order. Blank lines and non-dispatch frames are skipped. It stops at EOF, when ctx is
// done, or at the first line that cannot be decoded, and returns the number of events
// sent. out is not closed.
func Stream(ctx context.Context, r io.Reader, out chan<- event.Event, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxFrame)

	sent, line := 0, 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		e, err := Decode(raw)
		if errors.Is(err, ErrNotDispatch) {
			log.Debug("skip frame", zap.Int("line", line), zap.Error(err))
			continue
		}
		if err != nil {
			return sent, fmt.Errorf("line %d: %w", line, err)
		}
		select {
		case out <- e:
			sent++
		case <-ctx.Done():
			return sent, ctx.Err()
		}
	}
	return sent, sc.Err()
}
