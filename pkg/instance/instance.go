package instance

import "github.com/rimae/rimae-backend/pkg/env"

// idKeys are checked in order; the first non-blank value names this process.
var idKeys = []string{"RIMAE_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the process instance identifier used in logs, or "local".
func GetID() string {
	for _, key := range idKeys {
		if id := env.Get(key, ""); id != "" {
			return id
		}
	}
	return "local"
}
