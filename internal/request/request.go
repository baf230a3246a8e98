package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/byterange"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/headers"
)

var ErrMalformedRequestLine = errors.New("malformed request line")

type Request struct {
	StatusLine  string
	RequestLine RequestLine
	Headers     headers.Headers
}

type RequestLine struct {
	HttpVersion   string
	RequestTarget string
	Method        string
}

func PrintRequest(w io.Writer, r *Request) {
	fmt.Fprintln(w, "Request line:")
	fmt.Fprintln(w, "- Method: "+r.RequestLine.Method)
	fmt.Fprintln(w, "- Target: "+r.RequestLine.RequestTarget)
	fmt.Fprintln(w, "- Version: "+r.RequestLine.HttpVersion)
	fmt.Fprintf(w, "- Path: %q\n", r.Path())
	fmt.Fprintln(w, "Headers:")
	for _, key := range r.Headers.Keys() {
		fmt.Fprintf(w, "- %s: %s\n", key, r.Headers[key])
	}
	if spec, err := r.Range(); spec != nil {
		fmt.Fprintf(w, "Range: %s\n", spec)
	} else if err != nil {
		fmt.Fprintf(w, "Range: %v\n", err)
	}
}

// readLine returns one line without its "\n" or "\r\n" terminator.
// A final line cut off by end of stream is still returned.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func parseRequestLine(line string) (RequestLine, error) {
	parts := strings.Split(line, " ")
	if len(parts) < 2 {
		return RequestLine{}, fmt.Errorf("%w: %q", ErrMalformedRequestLine, line)
	}
	rl := RequestLine{
		Method:        parts[0],
		RequestTarget: parts[1],
	}
	if len(parts) > 2 {
		rl.HttpVersion = strings.TrimPrefix(parts[2], "HTTP/")
	}
	return rl, nil
}

// RequestFromReader reads one request head from r. Empty lines before the
// request line are skipped, so a silent peer blocks here until the
// connection deadline fires.
func RequestFromReader(reader *bufio.Reader) (*Request, error) {
	var statusLine string
	for statusLine == "" {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		statusLine = line
	}

	rl, err := parseRequestLine(statusLine)
	if err != nil {
		return nil, err
	}

	r := &Request{
		StatusLine:  statusLine,
		RequestLine: rl,
		Headers:     headers.NewHeaders(),
	}
	for {
		line, err := readLine(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Peer closed after the last header; the head is complete.
				break
			}
			return nil, fmt.Errorf("reading headers: %w", err)
		}
		if done := r.Headers.Parse(line); done {
			break
		}
	}
	return r, nil
}

// Path is the request target relative to the served root: "/" becomes the
// empty path, otherwise the leading slash is dropped and "%20" decoded.
func (r *Request) Path() string {
	target := r.RequestLine.RequestTarget
	if target == "/" {
		return ""
	}
	return strings.ReplaceAll(strings.TrimPrefix(target, "/"), "%20", " ")
}

// KeepAlive reports whether the client asked for a persistent connection.
func (r *Request) KeepAlive() bool {
	value, ok := r.Headers.Get("Connection")
	return ok && value == "keep-alive"
}

// Range returns the parsed Range header, or nil when none was sent.
func (r *Request) Range() (*byterange.Spec, error) {
	value, ok := r.Headers.Get("Range")
	if !ok {
		return nil, nil
	}
	spec, err := byterange.Parse(value)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
