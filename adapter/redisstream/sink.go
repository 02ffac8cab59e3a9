package redisstream

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/trickstertwo/xclock"
	"github.com/trickstertwo/xlog"

	"github.com/trickstertwo/xintersect"
)

// ErrSinkClosed is returned when publishing through a closed sink.
var ErrSinkClosed = errors.New("redisstream: sink is closed")

// Sink writes delivered batches to a Redis Stream.
type Sink struct {
	cfg        Config
	client     *redis.Client
	ownsClient bool
	codec      xintersect.Codec
	logger     *xlog.Logger
	clock      xclock.Clock
	pool       *publishPool

	closeOnce sync.Once
	closed    atomic.Bool

	metrics *sinkMetrics
}

type sinkMetrics struct {
	batches       atomic.Uint64
	published     atomic.Uint64
	publishErrors atomic.Uint64
}

// Stats is a snapshot of sink counters.
type Stats struct {
	Batches       uint64
	Published     uint64
	PublishErrors uint64
	Dropped       uint64
	Pending       int
}

// NewSink validates cfg, connects (unless WithClient was given) and pings Redis.
func NewSink(cfg Config, opts ...Option) (*Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	codec, err := xintersect.NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	s := &Sink{
		cfg:     cfg,
		codec:   codec,
		metrics: &sinkMetrics{},
	}
	for _, o := range opts {
		if o != nil {
			o(s)
		}
	}
	if s.logger == nil {
		s.logger = xlog.Default()
	}
	if s.clock == nil {
		s.clock = xclock.Default()
	}

	if s.client == nil {
		ropts := &redis.Options{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			MaxRetries:   3,
			PoolSize:     10,
			MinIdleConns: 2,
		}
		if cfg.TLS {
			ropts.TLSConfig = &tls.Config{
				MinVersion:    tls.VersionTLS12,
				ServerName:    cfg.TLSServerName,
				Renegotiation: tls.RenegotiateNever,
			}
		}
		s.client = redis.NewClient(ropts)
		s.ownsClient = true
	}

	if err := ping(s.client); err != nil {
		if s.ownsClient {
			_ = s.client.Close()
		}
		return nil, err
	}

	if cfg.Async {
		s.pool = newPublishPool(cfg.Workers, cfg.BufferSize, cfg.PublishTimeout, s.publishJob, s.publishFailed)
	}
	return s, nil
}

// Callback returns an xintersect.Callback that only ships batches.
func (s *Sink) Callback() xintersect.Callback {
	return func(entries []*xintersect.Entry, o *xintersect.Observer) error {
		return s.ship(entries, o)
	}
}

// Middleware ships each batch, then hands it to the next callback. A publish
// failure is logged; the user callback still runs.
func (s *Sink) Middleware() xintersect.Middleware {
	return func(next xintersect.Callback) xintersect.Callback {
		return func(entries []*xintersect.Entry, o *xintersect.Observer) error {
			if err := s.ship(entries, o); err != nil {
				s.logger.Warn().Err(err).Str("observer_id", o.ID()).Msg("redisstream: ship failed")
			}
			return next(entries, o)
		}
	}
}

func (s *Sink) ship(entries []*xintersect.Entry, o *xintersect.Observer) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	if len(entries) == 0 {
		return nil
	}
	j := &job{observerID: o.ID(), document: o.Document(), entries: entries}
	if s.pool != nil {
		if !s.pool.submit(j) {
			s.logger.Warn().Str("observer_id", j.observerID).Msg("redisstream: buffer full, batch dropped")
		}
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PublishTimeout)
	defer cancel()
	return s.publishJob(ctx, j)
}

// Publish writes one batch synchronously, bypassing the async pool.
func (s *Sink) Publish(ctx context.Context, observerID, document string, entries []*xintersect.Entry) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	return s.publishJob(ctx, &job{observerID: observerID, document: document, entries: entries})
}

// publishFailed reports a batch the async pool could not ship.
func (s *Sink) publishFailed(j *job, err error) {
	s.logger.Warn().
		Err(err).
		Str("observer_id", j.observerID).
		Str("entries", strconv.Itoa(len(j.entries))).
		Msg("redisstream: async publish failed")
}

// publishJob pipelines one XADD per entry.
func (s *Sink) publishJob(ctx context.Context, j *job) error {
	if len(j.entries) == 0 {
		return nil
	}
	args, err := buildArgs(s.cfg, s.codec, uuid.Must(uuid.NewV7()).String(), j)
	if err != nil {
		s.metrics.publishErrors.Add(1)
		return err
	}

	start := s.clock.Now()
	pipe := s.client.Pipeline()
	for _, a := range args {
		pipe.XAdd(ctx, a)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		s.metrics.publishErrors.Add(1)
		return err
	}

	s.metrics.batches.Add(1)
	s.metrics.published.Add(uint64(len(args)))
	s.logger.Debug().
		Str("observer_id", j.observerID).
		Str("entries", strconv.Itoa(len(args))).
		Dur("dur", s.clock.Since(start)).
		Msg("redisstream: batch published")
	return nil
}

// Read returns up to count records from the start of the stream (count <= 0 reads all).
func (s *Sink) Read(ctx context.Context, count int64) ([]Record, error) {
	var (
		msgs []redis.XMessage
		err  error
	)
	if count > 0 {
		msgs, err = s.client.XRangeN(ctx, s.cfg.Stream, "-", "+", count).Result()
	} else {
		msgs, err = s.client.XRange(ctx, s.cfg.Stream, "-", "+").Result()
	}
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(msgs))
	for _, m := range msgs {
		r, err := decodeRecord(s.codec, m.ID, m.Values)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *Sink) Stats() Stats {
	st := Stats{
		Batches:       s.metrics.batches.Load(),
		Published:     s.metrics.published.Load(),
		PublishErrors: s.metrics.publishErrors.Load(),
	}
	if s.pool != nil {
		ps := s.pool.stats()
		st.Dropped = ps.dropped
		st.Pending = ps.pending
	}
	return st
}

// Close drains the async pool and closes the client the sink created.
func (s *Sink) Close(_ context.Context) error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.pool != nil {
			if err := s.pool.close(5 * time.Second); err != nil {
				s.logger.Warn().Err(err).Msg("redisstream: publish pool shutdown timeout")
				closeErr = err
			}
		}
		if s.ownsClient {
			if err := s.client.Close(); err != nil {
				s.logger.Error().Err(err).Msg("redisstream: client close failed")
				closeErr = err
			}
		}
	})
	return closeErr
}

func ping(c *redis.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := c.Ping(ctx).Result()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("redis ping timeout: %w", err)
		}
		return err
	}
	if strings.ToUpper(res) != "PONG" {
		return fmt.Errorf("unexpected redis ping result: %s", res)
	}
	return nil
}
