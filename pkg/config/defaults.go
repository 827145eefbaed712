package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hearth"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// Fixed-window admission: 60 requests per 60 seconds per client key.
	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCreateMaxAttempts  = 3
	DefaultCreateRetryBackoff = 50 * time.Millisecond
	DefaultSlotLockTTL        = 10 * time.Second

	DefaultSessionCookieName   = "device_session"
	DefaultSessionCookieMaxAge = 365 * 24 * time.Hour

	DefaultEventsEnabled      = false
	DefaultBookingEventsTopic = "hearth.bookings"
	DefaultBookingEventsDLQ   = "hearth.bookings.dlq"
)
