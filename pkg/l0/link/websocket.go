package link

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// DefaultWebSocketPath is where the host channel is served.
const DefaultWebSocketPath = "/host"

// WebSocketServer carries the host channel over binary websocket frames.
// Frame boundaries carry no meaning. The newest connection wins.
type WebSocketServer struct {
	*Switch

	listener net.Listener
	server   *http.Server
}

// ListenWebSocket starts listening on addr and serves the host channel at path.
func ListenWebSocket(addr, path string) (*WebSocketServer, error) {
	if path == "" {
		path = DefaultWebSocketPath
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &WebSocketServer{Switch: NewSwitch(), listener: ln}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(s.serve))
	s.server = &http.Server{Handler: mux}
	return s, nil
}

// Addr returns the listening address.
func (s *WebSocketServer) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *WebSocketServer) serve(conn *websocket.Conn) {
	conn.PayloadType = websocket.BinaryFrame
	glog.Infof("link: host connected from %s", conn.Request().RemoteAddr)
	<-s.Attach(conn)
}

// Close stops serving and closes the active connection.
func (s *WebSocketServer) Close() error {
	s.Switch.Close()
	err := s.server.Close()
	s.listener.Close()
	return err
}

// Run implements Runnable.
func (s *WebSocketServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	err := s.server.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return ctx.Err()
	}
	return err
}
