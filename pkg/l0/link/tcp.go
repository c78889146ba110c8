package link

import (
	"context"
	"errors"
	"net"

	"github.com/golang/glog"
)

// TCPServer accepts host connections. The newest connection wins.
type TCPServer struct {
	*Switch

	listener net.Listener
}

// ListenTCP starts listening on addr.
func ListenTCP(addr string) (*TCPServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPServer{Switch: NewSwitch(), listener: ln}, nil
}

// Addr returns the listening address.
func (s *TCPServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops accepting and closes the active connection.
func (s *TCPServer) Close() error {
	s.Switch.Close()
	return s.listener.Close()
}

// Run implements Runnable.
func (s *TCPServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Close()
	}()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return ctx.Err()
			}
			return err
		}
		glog.Infof("link: host connected from %s", conn.RemoteAddr())
		s.Attach(conn)
	}
}
