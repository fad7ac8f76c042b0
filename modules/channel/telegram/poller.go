package telegram

import (
	"context"
	"log/slog"
	"sync"
)

// Poller implements long polling for receiving Telegram updates.
//
// It keeps a local cursor over update_id values: the first getUpdates call
// carries no offset, every later call asks for cursor+1, and an empty batch
// leaves the cursor untouched. Updates within a batch are handled
// concurrently and the poller waits for the whole batch before polling
// again, so the cursor only advances once every update in the batch had
// its chance to run.
type Poller struct {
	client   *Client
	handle   func(ctx context.Context, update *Update)
	logger   *slog.Logger
	timeout  int
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewPoller creates a new Poller. handle is invoked once per update.
func NewPoller(client *Client, handle func(ctx context.Context, update *Update), logger *slog.Logger, timeout int) *Poller {
	return &Poller{
		client:  client,
		handle:  handle,
		logger:  logger,
		timeout: timeout,
		done:    make(chan struct{}),
	}
}

// Start launches the polling loop in a goroutine.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.loop(ctx)
}

// Stop signals the polling loop to stop and waits for it to finish.
// It is safe to call Stop multiple times.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { p.cancel() })
	<-p.done
}

// loop runs the long-polling loop until the context is cancelled.
func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	var cursor int

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req := GetUpdatesRequest{Timeout: p.timeout}
		if cursor != 0 {
			req.Offset = cursor + 1
		}

		updates, err := p.client.GetUpdates(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("polling getUpdates failed", "error", err)
			continue
		}

		if len(updates) == 0 {
			continue
		}

		var wg sync.WaitGroup
		for i := range updates {
			update := &updates[i]
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.handle(ctx, update)
			}()
		}
		wg.Wait()

		cursor = updates[len(updates)-1].UpdateID
	}
}
