package response

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/byterange"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/headers"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/request"
	"github.com/dzikrisyairozi/multi-thread-web-server/internal/resource"
)

const (
	ServerName = "WW Server Pro"

	// DateFormat renders e.g. "Tue, Oct 7, 2025 02:15:09 PM GMT".
	DateFormat = "Mon, Jan 2, 2006 03:04:05 PM MST"

	keepAliveMax = 1000
)

var gmt = time.FixedZone("GMT", 0)

// Assembler turns a request and its resolved resource into a response.
type Assembler struct {
	KeepAliveTimeout time.Duration
	Now              func() time.Time
}

func NewAssembler(keepAliveTimeout time.Duration) *Assembler {
	return &Assembler{KeepAliveTimeout: keepAliveTimeout, Now: time.Now}
}

// Response is everything decided before any byte goes on the wire.
type Response struct {
	Status    StatusCode
	Headers   headers.Headers
	KeepAlive bool

	resource *resource.Resource
	body     []byte
	partial  bool
	start    int64
	end      int64
}

func (a *Assembler) baseHeaders(req *request.Request) (headers.Headers, bool) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	h := headers.NewHeaders()
	h.Set("Date", now().In(gmt).Format(DateFormat))
	h.Set("Server", ServerName)
	h.Set("Connection", "close")

	keepAlive := req.KeepAlive()
	if keepAlive {
		h.Set("Connection", "keep-alive")
		timeout := int64(a.KeepAliveTimeout / time.Second)
		h.Set("Keep-Alive", fmt.Sprintf("timeout=%ds, max=%d", timeout, keepAliveMax))
	}
	return h, keepAlive
}

// Build decides status and headers. A missing resource gets 404; a Range
// header gets 206 only when it validates against the resource length,
// otherwise the full body is served with 200.
func (a *Assembler) Build(req *request.Request, res *resource.Resource) *Response {
	if res == nil || !res.Exists {
		return a.BuildError(req, StatusNotFound)
	}

	h, keepAlive := a.baseHeaders(req)
	h.Set("Content-Type", res.ContentType)
	h.Set("Content-Length", strconv.FormatInt(res.Length, 10))
	h.Set("Content-Disposition", res.Disposition)

	resp := &Response{
		Status:    StatusOK,
		Headers:   h,
		KeepAlive: keepAlive,
		resource:  res,
		start:     0,
		end:       res.Length - 1,
	}

	spec, err := req.Range()
	if err != nil {
		log.Printf("Ignoring Range header on %q: %v", req.RequestLine.RequestTarget, err)
		return resp
	}
	if spec == nil {
		return resp
	}
	if !byterange.Validate(spec, res.Length) {
		log.Printf("Unsatisfiable range %s for %q (length %d), serving full body", spec, req.RequestLine.RequestTarget, res.Length)
		return resp
	}

	start, end, _ := spec.Bounds(res.Length)
	resp.Status = StatusPartialContent
	resp.partial = true
	resp.start, resp.end = start, end
	h.Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	h.Set("Content-Range", fmt.Sprintf("%s %d-%d/%d", spec.Unit, start, end, res.Length))
	return resp
}

// BuildError produces a short text/plain response for the given status.
func (a *Assembler) BuildError(req *request.Request, status StatusCode) *Response {
	h, keepAlive := a.baseHeaders(req)
	body := []byte(status.String() + "\n")
	for key, value := range GetDefaultHeaders(int64(len(body))) {
		if !h.Has(key) {
			h.Set(key, value)
		}
	}
	h.Set("Content-Disposition", "inline")
	return &Response{
		Status:    status,
		Headers:   h,
		KeepAlive: keepAlive,
		body:      body,
	}
}

// Write sends the status line, headers and body.
func (r *Response) Write(w io.Writer) error {
	rw := NewWriter(w)
	if err := rw.WriteStatusLine(r.Status); err != nil {
		return err
	}
	if err := rw.WriteHeaders(r.Headers); err != nil {
		return err
	}
	if err := r.writeBody(rw); err != nil {
		// Flush what made it so the peer sees a truncated body rather than nothing.
		rw.Flush()
		return err
	}
	return rw.Flush()
}

func (r *Response) writeBody(w io.Writer) error {
	switch {
	case r.resource == nil:
		_, err := w.Write(r.body)
		return err
	case r.partial:
		n, err := r.resource.WriteRange(w, r.start, r.end)
		if err == nil && n != r.end-r.start+1 {
			log.Printf("Short read on %s: wrote %d of %d bytes", r.resource.Path, n, r.end-r.start+1)
		}
		return err
	default:
		_, err := r.resource.WriteTo(w)
		return err
	}
}

// Respond builds and writes the response for res. It reports whether the
// connection should stay open for another request.
func (a *Assembler) Respond(w io.Writer, req *request.Request, res *resource.Resource) (bool, error) {
	resp := a.Build(req, res)
	if err := resp.Write(w); err != nil {
		return false, err
	}
	return resp.KeepAlive, nil
}

// RespondError writes a body-only error response such as a 500 for a
// resolution failure.
func (a *Assembler) RespondError(w io.Writer, req *request.Request, status StatusCode) (bool, error) {
	resp := a.BuildError(req, status)
	if err := resp.Write(w); err != nil {
		return false, err
	}
	return resp.KeepAlive, nil
}
