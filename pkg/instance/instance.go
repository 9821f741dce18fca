package instance

import (
	"os"

	"github.com/kai890707/my-profile-sub000/pkg/env"
)

// GetID names this process for lock ownership and logs. MYPROFILE_WORKER_ID
// wins, then the hostname.
func GetID() string {
	if id := env.Get("MYPROFILE_WORKER_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
