package jwtx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultRefreshInterval = time.Hour
	DefaultRetryMin        = time.Second
	DefaultRetryMax        = time.Minute
	DefaultFetchTimeout    = 10 * time.Second

	// DefaultOnDemandGap is the minimum spacing between refreshes triggered
	// by tokens naming an unknown kid.
	DefaultOnDemandGap = 30 * time.Second
)

// ErrRefreshThrottled is returned by RefreshNow when an on-demand refresh ran
// too recently.
var ErrRefreshThrottled = errors.New("jwtx: jwks refresh throttled")

// JWKSRefresher periodically reloads a KeySet from the issuer's JWKS URL so
// key rotations on the platform are picked up without a restart. A failed
// fetch is retried with exponential backoff between RetryMin and RetryMax
// instead of waiting a full Interval.
type JWKSRefresher struct {
	URL      string
	Keys     *KeySet
	Client   *http.Client
	Logger   *slog.Logger
	Interval time.Duration

	RetryMin     time.Duration
	RetryMax     time.Duration
	FetchTimeout time.Duration

	onDemand *rate.Limiter
	mu       sync.Mutex // serializes fetches

	started  atomic.Bool
	stopOnce sync.Once

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewJWKSRefresher creates a refresher. If interval is 0 or negative,
// defaults to 1 hour.
func NewJWKSRefresher(url string, keys *KeySet, logger *slog.Logger, interval time.Duration) *JWKSRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &JWKSRefresher{
		URL:          url,
		Keys:         keys,
		Client:       &http.Client{Timeout: DefaultFetchTimeout},
		Logger:       logger,
		Interval:     interval,
		RetryMin:     DefaultRetryMin,
		RetryMax:     min(DefaultRetryMax, interval),
		FetchTimeout: DefaultFetchTimeout,
		onDemand:     rate.NewLimiter(rate.Every(DefaultOnDemandGap), 1),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Refresh fetches the JWKS once and swaps it into the KeySet. On failure the
// previous keys stay in place.
func (r *JWKSRefresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.FetchTimeout)
		defer cancel()
	}

	jwks, err := FetchJWKS(ctx, r.Client, r.URL)
	if err != nil {
		return err
	}

	n, err := r.Keys.ResetFromJWKS(jwks)
	if err != nil {
		return err
	}

	r.Logger.Debug("jwks refreshed", "url", r.URL, "keys", n)
	return nil
}

// RefreshNow is Refresh for callers that just met an unknown kid. At most
// one such refresh runs per DefaultOnDemandGap; others get
// ErrRefreshThrottled.
func (r *JWKSRefresher) RefreshNow(ctx context.Context) error {
	if !r.onDemand.Allow() {
		return ErrRefreshThrottled
	}

	if err := r.Refresh(ctx); err != nil {
		r.Logger.Warn("on-demand jwks refresh failed", "url", r.URL, "error", err)
		return err
	}
	return nil
}

// Start begins the background refresh loop. The first refresh runs
// immediately. Call Stop() to shut it down.
func (r *JWKSRefresher) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.run()
	r.Logger.Info("jwks refresher started", "url", r.URL, "interval", r.Interval)
}

// Stop shuts the loop down and waits for an in-flight refresh to finish. It
// is safe to call more than once.
func (r *JWKSRefresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		if r.started.Load() {
			<-r.doneCh
		}
		r.Logger.Info("jwks refresher stopped")
	})
}

func (r *JWKSRefresher) run() {
	defer close(r.doneCh)

	retryMin := r.RetryMin
	if retryMin <= 0 {
		retryMin = DefaultRetryMin
	}

	backoff := retryMin
	for {
		wait := r.Interval
		if err := r.Refresh(context.Background()); err != nil {
			wait = backoff
			backoff = max(min(backoff*2, r.RetryMax), retryMin)
			r.Logger.Error("jwks refresh failed", "url", r.URL, "error", err, "retry_in", wait)
		} else {
			backoff = retryMin
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-r.stopCh:
			timer.Stop()
			return
		}
	}
}
