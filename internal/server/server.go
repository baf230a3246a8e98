package server

import (
	"bufio"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/request"
)

type Server struct {
	listener    net.Listener
	closed      atomic.Bool
	handler     Handler
	idleTimeout time.Duration
}

// Handler writes the full response for req and reports whether the
// connection should be kept open for another request.
type Handler func(w io.Writer, req *request.Request) (keepAlive bool, err error)

// Serve listens on addr and handles every connection on its own
// goroutine. Idle keep-alive connections are dropped after idleTimeout.
func Serve(addr string, h Handler, idleTimeout time.Duration) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		listener:    listener,
		handler:     h,
		idleTimeout: idleTimeout,
	}

	go srv.listen()

	return srv, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				// Listener is closed, exit the loop without logging an error
				return
			}
			log.Println("Error accepting connection:", err)
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		if s.idleTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(s.idleTimeout))
		}

		req, err := request.RequestFromReader(reader)
		if err != nil {
			if !quietError(err) {
				log.Printf("Error parsing request from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		keepAlive, err := s.handler(conn, req)
		if err != nil {
			log.Printf("Error writing response to %s: %v", conn.RemoteAddr(), err)
			return
		}
		if !keepAlive {
			return
		}
	}
}

// quietError reports errors that only mean the peer went away or idled out.
func quietError(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrDeadlineExceeded)
}
