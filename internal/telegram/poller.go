package telegram

import (
	"context"
	"time"

	"bot/internal/infra"
)

const (
	defaultPollWindow  = 30 * time.Second
	defaultPollBackoff = 3 * time.Second
)

// UpdateHandler consumes one update. Implementations must be safe for
// concurrent calls because the poller dispatches every update on its own
// goroutine.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd Update)
}

// PollerOptions configures a Poller.
type PollerOptions struct {
	Client  *Client
	Handler UpdateHandler
	Logger  infra.Logger
	Window  time.Duration
	Backoff time.Duration
}

// Poller drives getUpdates long polling and fans incoming updates out to the
// handler. One slow conversation must never stall the rest, so dispatch is
// per-update, not per-batch.
type Poller struct {
	client  *Client
	handler UpdateHandler
	logger  infra.Logger
	window  time.Duration
	backoff time.Duration
}

// NewPoller builds a Poller, applying defaults for anything unset.
func NewPoller(opts PollerOptions) *Poller {
	window := opts.Window
	if window <= 0 {
		window = defaultPollWindow
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultPollBackoff
	}
	return &Poller{
		client:  opts.Client,
		handler: opts.Handler,
		logger:  opts.Logger,
		window:  window,
		backoff: backoff,
	}
}

// Run polls until ctx is cancelled. Failed polls are logged and retried
// after a backoff; cancellation is a clean stop, not an error.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.window)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Warn().Err(err).Msg("poll updates failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(p.backoff):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			p.logger.Debug().Int64("update_id", upd.UpdateID).Msg("update received")
			go p.handler.HandleUpdate(ctx, upd)
		}
	}
}
