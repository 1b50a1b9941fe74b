package service

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"time"

	"github.com/example/iconbridge/internal/config"
	"github.com/example/iconbridge/internal/icon"
	"github.com/example/iconbridge/internal/ipc"
	"github.com/example/iconbridge/internal/launch"
	"github.com/example/iconbridge/internal/logging"
	"github.com/example/iconbridge/internal/protocol"
	"github.com/example/iconbridge/internal/security"
)

const requestTimeout = 30 * time.Second

// Icons is the part of icon.Service the server exposes.
type Icons interface {
	FileIcon(ctx context.Context, path string) string
	ApplicationIcon(ctx context.Context) icon.Info
	ShortcutTarget(ctx context.Context, path string) (string, bool)
}

// Service answers icon, shortcut and launch requests from local clients.
type Service struct {
	token    string
	endpoint ipc.Endpoint

	icons     Icons
	open      func(path string) error
	launchers func() ([]config.Launcher, error)
}

// New constructs a Service from the runtime settings.
func New(settings config.Settings, icons Icons) (*Service, error) {
	return newService(
		security.ResolveServiceToken(settings.ServiceToken, settings.Secret),
		ipc.NewEndpoint(settings.ServiceAddr),
		icons,
	)
}

func newService(token string, endpoint ipc.Endpoint, icons Icons) (*Service, error) {
	if token == "" {
		return nil, errors.New("service token could not be resolved; set ICONBRIDGE_SERVICE_TOKEN or ICONBRIDGE_SECRET")
	}
	if icons == nil {
		return nil, errors.New("nil icon service")
	}
	return &Service{
		token:     token,
		endpoint:  endpoint,
		icons:     icons,
		open:      launch.Open,
		launchers: loadLaunchers,
	}, nil
}

// Endpoint exposes the listening endpoint for logging and diagnostics.
func (s *Service) Endpoint() string {
	return s.endpoint.String()
}

// Run starts the listener and serves requests until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	listener, err := s.endpoint.Listen()
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.endpoint.String(), err)
	}
	log.Printf("iconbridge service listening on %s", s.endpoint.String())
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is canceled. Each
// connection is handled on its own goroutine.
func (s *Service) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				log.Println("iconbridge service shutting down")
				return context.Canceled
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Printf("temporary accept error: %v", err)
				time.Sleep(250 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept connection: %w", err)
		}

		go s.handleConnection(ctx, conn)
	}
}

// handleConnection serves newline-delimited requests until the client hangs
// up, an idle deadline passes, or a request fails authorization.
func (s *Service) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		_ = conn.SetDeadline(time.Now().Add(requestTimeout))

		var req protocol.Request
		if err := decoder.Decode(&req); err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				log.Printf("service: failed to decode request: %v", err)
			}
			return
		}
		logging.LogRequest(req.ID, req.Command, map[string]string{
			"path":  req.Path,
			"name":  req.Name,
			"token": req.Token,
		})

		if !s.authorize(req.Token) {
			s.reply(encoder, protocol.Response{ID: req.ID, Error: "unauthorized"})
			return
		}

		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
		resp := s.dispatch(reqCtx, req)
		cancel()
		if err := s.reply(encoder, resp); err != nil {
			log.Printf("service: failed to write response %s: %v", req.ID, err)
			return
		}
	}
}

func (s *Service) reply(encoder *json.Encoder, resp protocol.Response) error {
	var body []byte
	if logging.DebugEnabled() {
		body, _ = json.Marshal(resp)
	}
	logging.LogResponse(resp.ID, resp.Error, body)
	return encoder.Encode(resp)
}

func (s *Service) dispatch(ctx context.Context, req protocol.Request) protocol.Response {
	resp := protocol.Response{ID: req.ID}

	switch req.Command {
	case protocol.CommandFileIcon:
		resp.Icon = s.icons.FileIcon(ctx, req.Path)
	case protocol.CommandApplicationIcon:
		info := s.icons.ApplicationIcon(ctx)
		resp.Info = &info
	case protocol.CommandShortcutTarget:
		resp.Target, resp.Found = s.icons.ShortcutTarget(ctx, req.Path)
	case protocol.CommandOpenSoftware:
		if err := s.open(req.Path); err != nil {
			resp.Error = err.Error()
		}
	case protocol.CommandGreet:
		resp.Message = Greet(req.Name)
	case protocol.CommandLaunchersList:
		launchers, err := s.launchers()
		if err != nil {
			resp.Error = err.Error()
			break
		}
		resp.Launchers = launchers
	default:
		resp.Error = fmt.Sprintf("unknown command: %s", req.Command)
	}
	return resp
}

func (s *Service) authorize(token string) bool {
	if token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

func loadLaunchers() ([]config.Launcher, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	config.EnsureSequentialOrder(cfg.Launchers)
	return cfg.Launchers, nil
}

// Greet returns the greeting served by the greet command.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}
