package server

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/resource"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/response"
)

func startServer(t *testing.T, idleTimeout time.Duration) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o644))

	handler := NewFileHandler(resource.NewResolver(root, "index.html"), response.NewAssembler(idleTimeout))
	srv, err := Serve("127.0.0.1:0", handler, idleTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv, root
}

func dial(t *testing.T, srv *Server) (net.Conn, *bufio.Reader) {
	t.Helper()
	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return conn, bufio.NewReader(conn)
}

func roundTrip(t *testing.T, conn net.Conn, reader *bufio.Reader, raw string) (*http.Response, string) {
	t.Helper()
	_, err := io.WriteString(conn, raw)
	require.NoError(t, err)
	resp, err := http.ReadResponse(reader, nil)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func TestServeScenario(t *testing.T) {
	srv, _ := startServer(t, 2*time.Second)

	conn, reader := dial(t, srv)
	resp, body := roundTrip(t, conn, reader, "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))
	assert.Equal(t, int64(len(body)), resp.ContentLength)
	assert.Contains(t, body, "a.txt")

	conn, reader = dial(t, srv)
	resp, body = roundTrip(t, conn, reader, "GET /a.txt HTTP/1.1\r\nHost: localhost\r\n\r\n")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, int64(5), resp.ContentLength)
	assert.Equal(t, "hello", body)
	assert.Equal(t, response.ServerName, resp.Header.Get("Server"))

	conn, reader = dial(t, srv)
	resp, body = roundTrip(t, conn, reader, "GET /a.txt HTTP/1.1\r\nRange: bytes=1-3\r\n\r\n")
	assert.Equal(t, 206, resp.StatusCode)
	assert.Equal(t, "bytes 1-3/5", resp.Header.Get("Content-Range"))
	assert.Equal(t, "ell", body)

	conn, reader = dial(t, srv)
	resp, body = roundTrip(t, conn, reader, "GET /nothing.txt HTTP/1.1\r\n\r\n")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "404 Not Found\n", body)
}

func TestServeKeepAlive(t *testing.T) {
	srv, _ := startServer(t, 2*time.Second)
	conn, reader := dial(t, srv)

	var bodies []string
	for i := 0; i < 2; i++ {
		resp, body := roundTrip(t, conn, reader, "GET /a.txt HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "keep-alive", resp.Header.Get("Connection"))
		assert.Equal(t, "timeout=2s, max=1000", resp.Header.Get("Keep-Alive"))
		bodies = append(bodies, body)
	}
	assert.Equal(t, bodies[0], bodies[1])

	resp, body := roundTrip(t, conn, reader, "GET /a.txt HTTP/1.1\r\n\r\n")
	assert.Equal(t, "close", resp.Header.Get("Connection"))
	assert.Equal(t, "hello", body)

	// Server closes after a non keep-alive response.
	_, err := reader.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
}

func TestServeIdleTimeout(t *testing.T) {
	srv, _ := startServer(t, time.Second)
	conn, reader := dial(t, srv)

	resp, _ := roundTrip(t, conn, reader, "GET /a.txt HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
	assert.Equal(t, "timeout=1s, max=1000", resp.Header.Get("Keep-Alive"))

	start := time.Now()
	_, err := reader.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestServeMalformedRequest(t *testing.T) {
	srv, _ := startServer(t, 2*time.Second)
	conn, reader := dial(t, srv)

	_, err := io.WriteString(conn, "GARBAGE\r\n\r\n")
	require.NoError(t, err)
	_, err = reader.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
}

func TestServeConcurrentConnections(t *testing.T) {
	srv, root := startServer(t, 2*time.Second)
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("f%d.txt", i)
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(strings.Repeat("x", i+1)), 0o644))
	}

	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func(i int) {
			conn, err := net.Dial("tcp", srv.Addr().String())
			if err != nil {
				errs <- err
				return
			}
			defer conn.Close()
			fmt.Fprintf(conn, "GET /f%d.txt HTTP/1.1\r\n\r\n", i)
			resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
			if err != nil {
				errs <- err
				return
			}
			body, err := io.ReadAll(resp.Body)
			if err == nil && len(body) != i+1 {
				err = fmt.Errorf("f%d.txt: got %d bytes", i, len(body))
			}
			errs <- err
		}(i)
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, <-errs)
	}
}

func TestServerClose(t *testing.T) {
	srv, _ := startServer(t, time.Second)
	addr := srv.Addr().String()
	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())

	_, err := net.DialTimeout("tcp", addr, time.Second)
	assert.Error(t, err)
}
