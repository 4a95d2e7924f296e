// File: utils/constants.go
package utils

import "time"

// AuthCachePrefix is the prefix used for Redis authorization cache keys.
const AuthCachePrefix = "auth:"

// AuthCacheTTL is the time-to-live for authorization cache entries.
const AuthCacheTTL = 10 * time.Minute

// LockPrefix namespaces distributed lock keys.
const LockPrefix = "lock:"

// RequestIDHeader carries the request id in and out of the API.
const RequestIDHeader = "X-Request-ID"
