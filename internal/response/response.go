package response

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/headers"
)

type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusPartialContent      StatusCode = 206
	StatusNotFound            StatusCode = 404
	StatusInternalServerError StatusCode = 500
)

func (s StatusCode) String() string {
	return fmt.Sprintf("%d %s", int(s), http.StatusText(int(s)))
}

func WriteStatusLine(w io.Writer, statusCode StatusCode) error {
	_, err := fmt.Fprintf(w, "HTTP/1.1 %s\r\n", statusCode)
	return err
}

func GetDefaultHeaders(contentLen int64) headers.Headers {
	return headers.Headers{
		"Content-Length": strconv.FormatInt(contentLen, 10),
		"Content-Type":   "text/plain",
		"Connection":     "close",
	}
}

func WriteHeaders(w io.Writer, h headers.Headers) error {
	return h.Write(w)
}

const (
	writerStateStatusLine = iota
	writerStateHeaders
	writerStateBody
)

// Writer enforces status line, then headers, then body. Output is
// buffered until Flush.
type Writer struct {
	w     *bufio.Writer
	state int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), state: writerStateStatusLine}
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.state != writerStateStatusLine {
		return fmt.Errorf("status line already written")
	}
	w.state = writerStateHeaders
	return WriteStatusLine(w.w, statusCode)
}

func (w *Writer) WriteHeaders(h headers.Headers) error {
	if w.state != writerStateHeaders {
		return fmt.Errorf("headers written out of order")
	}
	w.state = writerStateBody
	return WriteHeaders(w.w, h)
}

func (w *Writer) Write(p []byte) (int, error) {
	if w.state != writerStateBody {
		return 0, fmt.Errorf("body written before headers")
	}
	return w.w.Write(p)
}

func (w *Writer) Flush() error {
	return w.w.Flush()
}
