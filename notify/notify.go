package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xyths/nft-dashboard/feed"
	"github.com/xyths/nft-dashboard/nft"
)

const (
	burstSize  = 100
	burstPause = 10 * time.Second
)

// Notifier delivers new events to chat subscribers.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, events []nft.Event) error
}

// format is the chat text of one event.
func format(e nft.Event, link bool, now time.Time) string {
	r := feed.NewRow(e, now)
	var b strings.Builder
	if e.Collection != "" {
		fmt.Fprintf(&b, "Collection: %s\n", e.Collection)
	}
	if e.TokenId != "" {
		fmt.Fprintf(&b, "TokenId: %s\n", e.TokenId)
	}
	b.WriteString(feed.FormatRow(r))
	if link && e.Contract != "" && e.TokenId != "" {
		fmt.Fprintf(&b, "\nhttps://opensea.io/assets/ethereum/%s/%s", strings.ToLower(e.Contract), e.TokenId)
	}
	return b.String()
}

// dispatch sends the matching events oldest first, pausing after every burst.
// events are ordered newest first.
func dispatch(ctx context.Context, sub Subscription, events []nft.Event, pause time.Duration, send func(text string) error) (int, error) {
	matching := sub.Matching(events)
	now := time.Now()
	sent := 0
	var firstErr error
	for i := len(matching) - 1; i >= 0; i-- {
		if err := send(format(matching[i], sub.Link, now)); err != nil && firstErr == nil {
			firstErr = err
		}
		sent++
		if sent%burstSize == 0 && i > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(pause):
			}
		}
	}
	return sent, firstErr
}
