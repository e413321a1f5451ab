package command

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/gokart/pkg/comm"
	"github.com/robotalks/gokart/pkg/comm/mqtt"
	"github.com/robotalks/gokart/pkg/comm/stream"
	wsrw "github.com/robotalks/gokart/pkg/comm/websocket"
	fx "github.com/robotalks/gokart/pkg/framework"
)

// MQTTChannel feeds a Cell from an MQTT topic.
type MQTTChannel struct {
	Queue Subscriber
	Topic string
	Cell  *Cell
	// OnReject is called with packets the Cell refused, nil only logs.
	OnReject func(error)
}

// Subscriber is the subset of mqtt.Queue used by MQTTChannel.
type Subscriber interface {
	Sub(topic string, handler mqtt.Handler) *mqtt.Subscription
}

// Name implements Named.
func (c *MQTTChannel) Name() string {
	return "mqtt:" + c.Topic
}

// Run implements Runnable. It subscribes until ctx is done.
func (c *MQTTChannel) Run(ctx context.Context) error {
	sub := c.Queue.Sub(c.Topic, func(_ string, payload []byte) {
		if c.OnReject == nil {
			c.Cell.HandlePacket(payload)
			return
		}
		if err := c.Cell.StorePacket(payload); err != nil {
			glog.Warningf("drop command packet: %v", err)
			c.OnReject(err)
		}
	})
	defer sub.Close()
	<-ctx.Done()
	return ctx.Err()
}

// Reader drains a PacketReader into a Cell until it fails.
type Reader struct {
	Reader comm.PacketReader
	Cell   *Cell
}

// Run implements Runnable. io.EOF is a clean end of stream.
func (r *Reader) Run(ctx context.Context) error {
	fn := func() error {
		for {
			pkt, err := r.Reader.ReadPacket()
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			r.Cell.HandlePacket(pkt)
		}
	}
	if closer, ok := r.Reader.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, fn)
	}
	return fn()
}

// Server accepts command connections over websocket and TCP.
// Each connection is drained by its own Reader.
type Server struct {
	Cell *Cell
	// WebsocketAddr is the HTTP listen address, path is WebsocketPath.
	WebsocketAddr string
	WebsocketPath string
	// StreamAddr is the TCP listen address for length-prefixed packets.
	StreamAddr string

	conns sync.WaitGroup
}

// DefaultWebsocketPath is the path serving command websockets.
const DefaultWebsocketPath = "/control_cmd"

// Name implements Named.
func (s *Server) Name() string {
	return "command-server"
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx)
	if s.WebsocketAddr != "" {
		runner.Go(fx.NamedRun("ws:"+s.WebsocketAddr, fx.RunnableFunc(s.serveWebsocket)))
	}
	if s.StreamAddr != "" {
		runner.Go(fx.NamedRun("tcp:"+s.StreamAddr, fx.RunnableFunc(s.serveStream)))
	}
	err := runner.Wait()
	s.conns.Wait()
	return err
}

// Handler returns the websocket handler feeding the cell.
func (s *Server) Handler(ctx context.Context) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		s.serveConn(ctx, conn.Request().RemoteAddr, wsrw.New(conn))
	})
}

func (s *Server) serveWebsocket(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.WebsocketAddr)
	if err != nil {
		return err
	}
	path := s.WebsocketPath
	if path == "" {
		path = DefaultWebsocketPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, s.Handler(ctx))
	glog.Infof("command websocket listening on %s%s", ln.Addr(), path)
	srv := &http.Server{Handler: mux}
	return fx.RunWithContextCloser(ctx, srv, func() error {
		return srv.Serve(ln)
	})
}

func (s *Server) serveStream(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.StreamAddr)
	if err != nil {
		return err
	}
	glog.Infof("command stream listening on %s", ln.Addr())
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			s.conns.Add(1)
			go func() {
				defer s.conns.Done()
				s.serveConn(ctx, conn.RemoteAddr().String(), stream.New(conn))
			}()
		}
	})
}

func (s *Server) serveConn(ctx context.Context, remote string, rw comm.PacketReader) {
	glog.V(2).Infof("command connection from %s", remote)
	r := &Reader{Reader: rw, Cell: s.Cell}
	if err := r.Run(ctx); err != nil && err != context.Canceled {
		glog.Warningf("command connection %s: %v", remote, err)
	}
}
