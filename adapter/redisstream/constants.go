package redisstream

// Field constants (avoid typos/allocs)
const (
	fieldBatch    = "batch"
	fieldObserver = "observer"
	fieldDocument = "document"
	fieldTarget   = "target"
	fieldTime     = "time" // int64 ns
	fieldPayload  = "payload"
)
