package client

import (
	"context"
	"time"
)

// Poller keeps one conversation eventually consistent by polling with the
// id of the newest message it has seen. The server returns an empty array
// for a deleted anchor rather than an error, so the poller also re-fetches
// the full message list every RefreshEvery polls; that periodic refresh is
// the staleness-recovery policy, not an optimization.
type Poller struct {
	Client         *Client
	ConversationID string

	// Interval between polls. Defaults to 3 seconds.
	Interval time.Duration

	// RefreshEvery forces a full list fetch after this many polls.
	// Zero defaults to 20; a negative value disables periodic refresh.
	RefreshEvery int

	// OnMessages receives message batches in creation order. Poll batches
	// contain only new messages; refresh batches contain the full list, so
	// consumers reconcile by message id rather than blindly appending.
	OnMessages func([]Message)

	// OnError receives transport or API errors; polling continues unless
	// the conversation itself is gone.
	OnError func(error)

	anchor     string
	pollsSince int
}

// Anchor returns the id of the newest message observed so far.
func (p *Poller) Anchor() string {
	return p.anchor
}

// Run polls until the context is cancelled or the conversation disappears
// (404), in which case it returns the API error so the caller can clear
// its local conversation state.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	refreshEvery := p.RefreshEvery
	if p.RefreshEvery == 0 {
		refreshEvery = 20
	}

	// Initial full fetch establishes the anchor; polling with no anchor
	// would only ever return an empty array.
	if err := p.refresh(ctx); err != nil {
		if IsNotFound(err) {
			return err
		}
		p.reportError(err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		p.pollsSince++
		if refreshEvery > 0 && p.pollsSince >= refreshEvery {
			if err := p.refresh(ctx); err != nil {
				if IsNotFound(err) {
					return err
				}
				p.reportError(err)
			}
			continue
		}

		messages, err := p.Client.PollMessages(ctx, p.ConversationID, p.anchor)
		if err != nil {
			if IsNotFound(err) {
				return err
			}
			p.reportError(err)
			continue
		}
		p.deliver(messages)
	}
}

// refresh replaces poll state with a full message list fetch. It also
// un-sticks the poller when its anchor message was deleted server-side.
func (p *Poller) refresh(ctx context.Context) error {
	messages, err := p.Client.ListMessages(ctx, p.ConversationID)
	if err != nil {
		return err
	}
	p.pollsSince = 0
	p.deliver(messages)
	return nil
}

func (p *Poller) deliver(messages []Message) {
	if len(messages) == 0 {
		return
	}
	p.anchor = messages[len(messages)-1].ID
	if p.OnMessages != nil {
		p.OnMessages(messages)
	}
}

func (p *Poller) reportError(err error) {
	if p.OnError != nil {
		p.OnError(err)
	}
}
