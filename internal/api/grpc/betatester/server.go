package betatester

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/wpbt/beta-tester/internal/domain/release"
	"github.com/wpbt/beta-tester/internal/logger"
)

// Settings fields as they appear in Struct messages.
const (
	FieldStream       = "stream"
	FieldRevert       = "revert"
	FieldChannel      = "channel"
	FieldStreamOption = "stream_option"
)

// Downgrade check fields as they appear in Struct messages.
const (
	FieldInstalled = "installed"
	FieldNext      = "next"
	FieldDowngrade = "downgrade"
	FieldNotice    = "notice"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Settings(ctx context.Context) release.Settings
	// UpdateSettings applies change to the stored settings, then validates and
	// persists the result. Concurrent updates are serialized.
	UpdateSettings(ctx context.Context, change func(*release.Settings) error) (release.Settings, error)
	RequestVersion(ctx context.Context) (string, error)
	CheckDowngrade(ctx context.Context) (*release.DowngradeCheck, error)
}

var (
	// errUnknownField is returned for settings keys the service does not know.
	errUnknownField = errors.New("unknown settings field")
	// errWrongKind is returned when a settings value has an unexpected type.
	errWrongKind = errors.New("unexpected value type")
)

// Server implements the BetaTesterService gRPC API.
type Server struct {
	// service provides the business logic.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetSettings returns the stored settings.
func (s *Server) GetSettings(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toProtoSettings(s.service.Settings(ctx)), nil
}

// UpdateSettings merges the provided fields into the stored settings and
// persists the result.
func (s *Server) UpdateSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil || len(req.GetFields()) == 0 {
		return nil, status.Error(codes.InvalidArgument, "at least one settings field is required")
	}

	if actor := ActorFromContext(ctx); actor != nil {
		ctx = logger.WithFields(ctx, "hostname", actor.Hostname, "username", actor.Username)
	}

	updated, err := s.service.UpdateSettings(ctx, func(settings *release.Settings) error {
		merged, err := mergeSettings(*settings, req)
		if err != nil {
			return fmt.Errorf("%w: %w", release.ErrInvalidSettings, err)
		}

		*settings = merged

		return nil
	})
	switch {
	case err == nil:
		return toProtoSettings(updated), nil
	case errors.Is(err, release.ErrInvalidSettings):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	default:
		return nil, status.Error(codes.Internal, "unable to persist settings")
	}
}

// GetRequestVersion returns the version that goes out with version checks.
func (s *Server) GetRequestVersion(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	version, err := s.service.RequestVersion(ctx)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	return wrapperspb.String(version), nil
}

// CheckDowngrade reports whether the offered update goes back a release.
func (s *Server) CheckDowngrade(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	check, err := s.service.CheckDowngrade(ctx)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	return toProtoDowngrade(check), nil
}

// mergeSettings applies the fields present in patch on top of current.
func mergeSettings(current release.Settings, patch *structpb.Struct) (release.Settings, error) {
	for key, value := range patch.GetFields() {
		switch key {
		case FieldStream:
			text, err := stringValue(key, value)
			if err != nil {
				return release.Settings{}, err
			}

			current.Stream = release.Stream(text)
		case FieldRevert:
			flag, ok := value.GetKind().(*structpb.Value_BoolValue)
			if !ok {
				return release.Settings{}, fmt.Errorf("%w: %s must be a bool", errWrongKind, key)
			}

			current.Revert = flag.BoolValue
		case FieldChannel:
			text, err := stringValue(key, value)
			if err != nil {
				return release.Settings{}, err
			}

			current.Channel = text
		case FieldStreamOption:
			text, err := stringValue(key, value)
			if err != nil {
				return release.Settings{}, err
			}

			current.StreamOption = text
		default:
			return release.Settings{}, fmt.Errorf("%w: %q", errUnknownField, key)
		}
	}

	return current, nil
}

// stringValue extracts a string or reports the wrong kind.
func stringValue(key string, value *structpb.Value) (string, error) {
	text, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", errWrongKind, key)
	}

	return text.StringValue, nil
}

// toProtoSettings converts settings to a Struct message.
func toProtoSettings(settings release.Settings) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldStream:       structpb.NewStringValue(string(settings.Stream)),
			FieldRevert:       structpb.NewBoolValue(settings.Revert),
			FieldChannel:      structpb.NewStringValue(settings.Channel),
			FieldStreamOption: structpb.NewStringValue(settings.StreamOption),
		},
	}
}

// FromProtoSettings converts a Struct message back to settings. Missing
// fields keep their zero value.
func FromProtoSettings(msg *structpb.Struct) (release.Settings, error) {
	return mergeSettings(release.Settings{}, msg)
}

// toProtoDowngrade converts a downgrade check to a Struct message.
func toProtoDowngrade(check *release.DowngradeCheck) *structpb.Struct {
	if check == nil {
		return &structpb.Struct{Fields: map[string]*structpb.Value{}}
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldInstalled: structpb.NewStringValue(check.Installed),
			FieldNext:      structpb.NewStringValue(check.Next),
			FieldDowngrade: structpb.NewBoolValue(check.IsDowngrade),
			FieldNotice:    structpb.NewStringValue(check.Notice),
		},
	}
}

// FromProtoDowngrade converts a Struct message back to a downgrade check.
func FromProtoDowngrade(msg *structpb.Struct) *release.DowngradeCheck {
	fields := msg.GetFields()

	return &release.DowngradeCheck{
		Installed:   fields[FieldInstalled].GetStringValue(),
		Next:        fields[FieldNext].GetStringValue(),
		IsDowngrade: fields[FieldDowngrade].GetBoolValue(),
		Notice:      fields[FieldNotice].GetStringValue(),
	}
}
