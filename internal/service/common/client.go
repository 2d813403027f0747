//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/guardian-eye/internal/api/grpc/alert"
	"github.com/oshokin/guardian-eye/internal/config"
	"github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/version"
	"github.com/oshokin/guardian-eye/internal/wire"
)

// Client wraps the gRPC AlertService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alert server.
	conn *grpc.ClientConn
	// api is the AlertService client.
	api *api.AlertServiceClient

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

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the alert server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUserAgent(version.UserAgent()),
	)
	if err != nil {
		return nil, fmt.Errorf("dial alert server: %w", err)
	}

	client := NewClient(conn, opts...)
	client.conn = conn

	return client, nil
}

// NewClient wraps an existing connection. The caller keeps ownership of cc.
func NewClient(cc grpc.ClientConnInterface, opts ...Option) *Client {
	client := &Client{
		api:         api.NewAlertServiceClient(cc),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Evaluate submits a reading and returns the server's evaluation.
func (c *Client) Evaluate(ctx context.Context, reading alert.Reading) (*alert.Evaluation, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.Evaluate(callCtx, wire.FromReading(reading))
	if err != nil {
		return nil, fmt.Errorf("evaluate reading: %w", err)
	}

	evaluation, err := wire.ToEvaluation(response)
	if err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}

	return evaluation, nil
}

// Status returns the remote latch state and thresholds.
func (c *Client) Status(ctx context.Context) (alert.State, alert.Thresholds, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetStatus(callCtx)
	if err != nil {
		return alert.StateMonitoring, alert.Thresholds{}, fmt.Errorf("get status: %w", err)
	}

	return wire.ToStatus(response)
}

// Report returns the remote monitoring report.
func (c *Client) Report(ctx context.Context) (*alert.Report, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetReport(callCtx)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	return wire.ToReport(response)
}

// Events returns the remote alert journal.
func (c *Client) Events(ctx context.Context) ([]alert.Event, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.ListEvents(callCtx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return wire.ToEvents(response)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
