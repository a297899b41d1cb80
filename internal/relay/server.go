package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

// Path is the HTTP path the relay socket is served on.
const Path = "/relay"

// Applier applies a transfer on the authoritative peer.
// *inventory.Resolver satisfies it.
type Applier interface {
	Apply(ctx context.Context, req inventory.TransferRequest) (inventory.Changeset, error)
}

// ServerConfig configures a relay Server.
type ServerConfig struct {
	// Addr is the "host:port" listen address.
	Addr string
	// SecretHash is the bcrypt hash of the shared secret peers present.
	SecretHash string
	// ReadTimeout closes a peer that sends nothing for this long. Zero disables it.
	ReadTimeout time.Duration
}

// Server accepts relay connections and applies every well-formed transfer
// it receives. Requests from one peer are applied in arrival order; requests
// from different peers may interleave.
type Server struct {
	cfg      ServerConfig
	applier  Applier
	logger   *zap.Logger
	upgrader websocket.Upgrader
	http     *http.Server
	peers    atomic.Int32
}

// NewServer creates a Server.
//
// Precondition: applier and logger are non-nil; cfg.SecretHash is a bcrypt hash.
func NewServer(cfg ServerConfig, applier Applier, logger *zap.Logger) (*Server, error) {
	if _, err := bcrypt.Cost([]byte(cfg.SecretHash)); err != nil {
		return nil, fmt.Errorf("relay secret hash: %w", err)
	}
	s := &Server{
		cfg:     cfg,
		applier: applier,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.Handle)
	s.http = &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	return s, nil
}

// Handler returns the HTTP handler serving the relay path.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Peers returns the number of connected peers.
func (s *Server) Peers() int {
	return int(s.peers.Load())
}

// Start listens on the configured address and blocks until Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("relay listen %s: %w", s.cfg.Addr, err)
	}
	s.logger.Info("relay listening", zap.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("relay serve: %w", err)
	}
	return nil
}

// Stop shuts the listener down and waits briefly for handlers to return.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Warn("relay shutdown", zap.Error(err))
	}
}

// Handle authenticates the peer, upgrades the connection and reads transfer
// envelopes until the peer disconnects. Malformed messages are discarded.
func (s *Server) Handle(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get(SecretHeader)
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.SecretHash), []byte(secret)); err != nil {
		s.logger.Warn("relay peer rejected", zap.String("remote", r.RemoteAddr))
		http.Error(w, "invalid relay secret", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("relay upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()

	s.peers.Add(1)
	defer s.peers.Add(-1)
	s.logger.Info("relay peer connected", zap.String("remote", r.RemoteAddr))

	for {
		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Info("relay peer disconnected", zap.String("remote", r.RemoteAddr), zap.Error(err))
			return
		}
		req, err := DecodeTransfer(data)
		if err != nil {
			s.logger.Warn("discarding relay message", zap.String("remote", r.RemoteAddr), zap.Error(err))
			continue
		}
		if _, err := s.applier.Apply(r.Context(), req); err != nil {
			s.logger.Warn("relayed transfer failed",
				zap.String("item", req.ItemID),
				zap.String("source", req.SourceActorID),
				zap.String("target", req.TargetActorID),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("relayed transfer applied",
			zap.String("item", req.ItemID),
			zap.Int("quantity", req.Quantity),
			zap.String("source", req.SourceActorID),
			zap.String("target", req.TargetActorID),
		)
	}
}

// HashSecret returns the bcrypt hash to configure for secret.
func HashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing relay secret: %w", err)
	}
	return string(h), nil
}
