// Package lifecycle holds shared constants for application start and
// shutdown behavior.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown of long-lived components such
// as HTTP servers and database pools.
const DefaultTimeout = 10 * time.Second
