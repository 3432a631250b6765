package betatester

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// Metadata keys carrying the caller identity.
const (
	hostnameKey = "x-wpbt-hostname"
	usernameKey = "x-wpbt-username"
)

// Actor identifies who performed a call.
type Actor struct {
	// Hostname is the machine name the call came from.
	Hostname string
	// Username is the system user who made the call.
	Username string
}

// AppendToOutgoingContext attaches the actor to outgoing call metadata.
func (a *Actor) AppendToOutgoingContext(ctx context.Context) context.Context {
	if a == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, hostnameKey, a.Hostname, usernameKey, a.Username)
}

// ActorFromContext reads the actor from incoming call metadata. It returns
// nil when the caller did not identify itself.
func ActorFromContext(ctx context.Context) *Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	actor := &Actor{
		Hostname: first(md.Get(hostnameKey)),
		Username: first(md.Get(usernameKey)),
	}

	if actor.Hostname == "" && actor.Username == "" {
		return nil
	}

	return actor
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
