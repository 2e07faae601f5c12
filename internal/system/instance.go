// Package system describes the running process.
package system

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// GenerateInstanceID returns an identifier for this process, made of the
// host name, pid and a random suffix.
func GenerateInstanceID() string {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "localhost"
	}
	return fmt.Sprintf("%s-%d-%s", hostname, os.Getpid(), uuid.NewString()[:8])
}
