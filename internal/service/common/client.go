//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/wpbt/beta-tester/internal/api/grpc/betatester"
	"github.com/wpbt/beta-tester/internal/config"
	"github.com/wpbt/beta-tester/internal/domain/release"
)

// Client wraps the BetaTesterService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to wpbt-server.
	conn *grpc.ClientConn
	// api is the BetaTesterService client.
	api api.BetaTesterServiceClient
	// actor identifies the caller on settings changes.
	actor *api.Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sends the actor with every call.
func WithActor(actor *api.Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// SettingsPatch lists the settings to change. Nil fields are left as they are.
type SettingsPatch struct {
	Stream       *string
	Revert       *bool
	Channel      *string
	StreamOption *string
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errEmptyPatch is returned when a settings update changes nothing.
	errEmptyPatch = errors.New("no settings to change")
)

// Dial establishes a gRPC connection to wpbt-server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial wpbt server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewBetaTesterServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetSettings retrieves the stored settings.
func (c *Client) GetSettings(ctx context.Context) (release.Settings, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetSettings(callCtx, new(emptypb.Empty))
	if err != nil {
		return release.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return api.FromProtoSettings(resp)
}

// UpdateSettings changes the fields set in patch and returns the stored result.
func (c *Client) UpdateSettings(ctx context.Context, patch SettingsPatch) (release.Settings, error) {
	request := patch.toProto()
	if len(request.GetFields()) == 0 {
		return release.Settings{}, errEmptyPatch
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.UpdateSettings(callCtx, request)
	if err != nil {
		return release.Settings{}, fmt.Errorf("update settings: %w", err)
	}

	return api.FromProtoSettings(resp)
}

// RequestVersion returns the version wpbt-server sends in version checks.
func (c *Client) RequestVersion(ctx context.Context) (string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetRequestVersion(callCtx, new(emptypb.Empty))
	if err != nil {
		return "", fmt.Errorf("get request version: %w", err)
	}

	return resp.GetValue(), nil
}

// CheckDowngrade asks whether the configured stream downgrades the install.
func (c *Client) CheckDowngrade(ctx context.Context) (*release.DowngradeCheck, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.CheckDowngrade(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("check downgrade: %w", err)
	}

	return api.FromProtoDowngrade(resp), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, when
// set, travels as metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = c.actor.AppendToOutgoingContext(ctx)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}

// toProto keeps only the fields that are set.
func (p SettingsPatch) toProto() *structpb.Struct {
	fields := make(map[string]*structpb.Value)

	if p.Stream != nil {
		fields[api.FieldStream] = structpb.NewStringValue(*p.Stream)
	}

	if p.Revert != nil {
		fields[api.FieldRevert] = structpb.NewBoolValue(*p.Revert)
	}

	if p.Channel != nil {
		fields[api.FieldChannel] = structpb.NewStringValue(*p.Channel)
	}

	if p.StreamOption != nil {
		fields[api.FieldStreamOption] = structpb.NewStringValue(*p.StreamOption)
	}

	return &structpb.Struct{Fields: fields}
}
