package redisstream

import (
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trickstertwo/xintersect"
)

// Identifier lets a target supply the name written to the stream.
type Identifier interface {
	IntersectionID() string
}

// Geometry is the codec-encoded payload of one entry.
type Geometry struct {
	RootBounds         xintersect.Rect `json:"root_bounds"`
	BoundingClientRect xintersect.Rect `json:"bounding_client_rect"`
	IntersectionRect   xintersect.Rect `json:"intersection_rect"`
	IsIntersecting     bool            `json:"is_intersecting"`
	IntersectionRatio  float64         `json:"intersection_ratio"`
}

// Record is one entry read back from the stream.
type Record struct {
	ID         string
	BatchID    string
	ObserverID string
	Document   string
	Target     string
	Time       time.Time
	Geometry   Geometry
}

type job struct {
	observerID string
	document   string
	entries    []*xintersect.Entry
}

// targetName resolves the stream name of a target.
func targetName(t xintersect.Element) string {
	switch v := t.(type) {
	case nil:
		return ""
	case Identifier:
		return v.IntersectionID()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%T", t)
}

func buildArgs(cfg Config, codec xintersect.Codec, batchID string, j *job) ([]*redis.XAddArgs, error) {
	out := make([]*redis.XAddArgs, 0, len(j.entries))
	for _, e := range j.entries {
		if e == nil {
			continue
		}
		payload, err := codec.Marshal(Geometry{
			RootBounds:         e.RootBounds,
			BoundingClientRect: e.BoundingClientRect,
			IntersectionRect:   e.IntersectionRect,
			IsIntersecting:     e.IsIntersecting,
			IntersectionRatio:  e.IntersectionRatio,
		})
		if err != nil {
			return nil, fmt.Errorf("redisstream: encode entry: %w", err)
		}

		args := &redis.XAddArgs{
			Stream: cfg.Stream,
			ID:     "*",
			Values: map[string]any{
				fieldBatch:    batchID,
				fieldObserver: j.observerID,
				fieldDocument: j.document,
				fieldTarget:   targetName(e.Target),
				fieldTime:     e.Time.UnixNano(),
				fieldPayload:  payload,
			},
		}
		// Approximate trimming to keep stream bounded
		if cfg.MaxLenApprox > 0 {
			args.MaxLen = cfg.MaxLenApprox
			args.Approx = true
		}
		out = append(out, args)
	}
	return out, nil
}

// decodeRecord reconstructs a Record from stream entry values.
func decodeRecord(codec xintersect.Codec, id string, vals map[string]any) (Record, error) {
	r := Record{
		ID:         id,
		BatchID:    asString(vals[fieldBatch]),
		ObserverID: asString(vals[fieldObserver]),
		Document:   asString(vals[fieldDocument]),
		Target:     asString(vals[fieldTarget]),
	}
	if ns, ok := toInt64(vals[fieldTime]); ok && ns > 0 {
		r.Time = time.Unix(0, ns)
	}
	if p, ok := vals[fieldPayload]; ok {
		g, err := xintersect.Decode[Geometry](codec, []byte(asString(p)))
		if err != nil {
			return Record{}, fmt.Errorf("redisstream: decode %s: %w", id, err)
		}
		r.Geometry = g
	}
	return r, nil
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	case []byte:
		return toInt64(string(n))
	}
	return 0, false
}
