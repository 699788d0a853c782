// Package lifecycle holds shared process lifecycle settings.
package lifecycle

import "time"

// DefaultTimeout bounds start-up probes and graceful shutdown of each component.
const DefaultTimeout = 15 * time.Second
