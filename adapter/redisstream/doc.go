// Package redisstream ships delivered xintersect batches to a Redis Stream.
//
// Each entry becomes one XADD with the fields below; all entries of a batch share
// a batch ID so consumers can regroup them.
//
//	batch, observer, document, target, time (unix ns), payload (codec-encoded geometry)
//
// Minimal config keys for ConfigFromMap:
// - addr: "host:port" (default "127.0.0.1:6379")
// - stream: stream key (default "xintersect:entries")
// - max_len_approx: approximate MAXLEN trimming (default 0 = off)
// - codec: payload codec name (default "json")
// - async: publish from background workers (default false)
// - workers / buffer_size: async pool sizing (default 4 / 1000)
// - publish_timeout: per-batch publish timeout (default 2s)
//
// Example:
//
//	sink, err := redisstream.NewSink(redisstream.Defaults())
//	if err != nil {
//	    return err
//	}
//	defer sink.Close(context.Background())
//	obs, err := xintersect.New(userCallback, func(b *xintersect.ObserverBuilder) {
//	    b.WithCoordinator(coord).WithRoot(viewport).WithMiddleware(sink.Middleware())
//	})
package redisstream
