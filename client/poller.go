package client

import (
	"context"
	"sync"
	"time"
)

// PollerConfig configures a recent-entries poller.
type PollerConfig struct {
	// Interval between fetches. Zero defaults to 30 seconds.
	Interval time.Duration
	// Params is the listing request issued on every poll.
	Params ListEntriesParams
	// OnUpdate receives each committed page.
	OnUpdate func(EntriesPage)
	// OnError receives fetch failures. Cancellation of a superseded
	// request is not reported.
	OnError func(error)
}

// Poller periodically refreshes the recent-entries list. It suspends while
// the document is hidden or the client is offline (fed via SetVisible and
// SetOnline), allows at most one in-flight fetch, and cancels a stale fetch
// when a new one starts.
//
// Cancellation alone cannot guarantee a stale response never lands: the old
// response may already be in flight when the new request is issued. Every
// fetch therefore carries a generation number, and a result is committed
// only while its generation is still the latest issued — a late arrival
// from a superseded fetch is discarded, never applied.
type Poller struct {
	client *Client
	cfg    PollerConfig

	mu             sync.Mutex
	gen            uint64
	cancelInflight context.CancelFunc
	visible        bool
	online         bool
	running        bool
	stop           context.CancelFunc
	wg             sync.WaitGroup
}

// NewPoller builds a poller; callers then Start it.
func (c *Client) NewPoller(cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	return &Poller{
		client:  c,
		cfg:     cfg,
		visible: true,
		online:  true,
	}
}

// Start begins polling until ctx is cancelled or Stop is called. The first
// fetch is issued immediately.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	ctx, p.stop = context.WithCancel(ctx)
	p.mu.Unlock()

	p.fetch(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.fetch(ctx)
			}
		}
	}()
}

// Stop cancels polling and any in-flight fetch, then waits for the loop to
// exit. Safe to call multiple times.
func (p *Poller) Stop() {
	p.mu.Lock()
	stop := p.stop
	p.running = false
	p.mu.Unlock()
	if stop != nil {
		stop()
	}
	p.wg.Wait()
}

// SetVisible feeds the document visibility signal. Becoming visible
// triggers an immediate refresh, mirroring a tab regaining focus.
func (p *Poller) SetVisible(ctx context.Context, visible bool) {
	p.mu.Lock()
	wasVisible := p.visible
	p.visible = visible
	p.mu.Unlock()
	if visible && !wasVisible {
		p.fetch(ctx)
	}
}

// SetOnline feeds the connectivity signal.
func (p *Poller) SetOnline(ctx context.Context, online bool) {
	p.mu.Lock()
	wasOnline := p.online
	p.online = online
	p.mu.Unlock()
	if online && !wasOnline {
		p.fetch(ctx)
	}
}

// Refresh forces a fetch outside the regular interval.
func (p *Poller) Refresh(ctx context.Context) {
	p.fetch(ctx)
}

func (p *Poller) fetch(ctx context.Context) {
	p.mu.Lock()
	if !p.visible || !p.online {
		p.mu.Unlock()
		return
	}
	// A newer fetch supersedes the in-flight one.
	if p.cancelInflight != nil {
		p.cancelInflight()
	}
	p.gen++
	gen := p.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	p.cancelInflight = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		page, err := p.client.ListEntries(fetchCtx, p.cfg.Params)

		p.mu.Lock()
		latest := gen == p.gen
		if latest && p.cancelInflight != nil {
			p.cancelInflight = nil
		}
		p.mu.Unlock()

		if !latest {
			// A newer request was issued while this one was in
			// flight; its result must not reach state even though
			// it arrived last.
			staleResultsDiscardedTotal.Inc()
			return
		}
		if err != nil {
			if fetchCtx.Err() == nil && p.cfg.OnError != nil {
				p.cfg.OnError(err)
			}
			return
		}
		if p.cfg.OnUpdate != nil {
			p.cfg.OnUpdate(*page)
		}
	}()
}
