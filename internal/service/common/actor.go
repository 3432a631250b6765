//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"fmt"
	"os"
	"os/user"

	api "github.com/wpbt/beta-tester/internal/api/grpc/betatester"
)

// DetectActor gathers host and user information for the audit trail.
// Returns the transport type because the client sends it as call metadata.
func DetectActor() (*api.Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &api.Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}
