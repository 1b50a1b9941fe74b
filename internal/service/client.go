package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/ipc"
	"github.com/example/iconbridge/internal/protocol"
	"github.com/example/iconbridge/internal/security"
)

// ErrUnauthorized is returned when the service rejects the client token.
var ErrUnauthorized = errors.New("service rejected the client token")

// Client sends single requests to a running Service.
type Client struct {
	endpoint ipc.Endpoint
	token    string
	// timeout bounds a single round trip when ctx carries no earlier deadline.
	timeout time.Duration
}

// NewClient builds a Client for the endpoint and token described by settings.
func NewClient(settings config.Settings) *Client {
	return &Client{
		endpoint: ipc.NewEndpoint(settings.ServiceAddr),
		token:    security.ResolveServiceToken(settings.ServiceToken, settings.Secret),
		timeout:  requestTimeout,
	}
}

// Do sends req and waits for the matching response. Request ID and token are
// filled in by the client.
func (c *Client) Do(ctx context.Context, req protocol.Request) (protocol.Response, error) {
	conn, err := c.endpoint.DialContext(ctx)
	if err != nil {
		return protocol.Response{}, fmt.Errorf("dial %s: %w", c.endpoint.String(), err)
	}
	defer conn.Close()

	timeout := c.timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = conn.SetDeadline(deadline)
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	req.ID = uuid.NewString()
	req.Token = c.token
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return protocol.Response{}, fmt.Errorf("send request: %w", err)
	}

	var resp protocol.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return protocol.Response{}, fmt.Errorf("read response: %w", err)
	}
	if resp.Error == "unauthorized" {
		return resp, ErrUnauthorized
	}
	if resp.ID != req.ID {
		return resp, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if resp.Error != "" {
		return resp, errors.New(resp.Error)
	}
	return resp, nil
}
