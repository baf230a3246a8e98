package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dzikrisyairozi/multi-thread-web-server/internal/listing"
)

// BufferSize is the transfer buffer used for every body copy.
const BufferSize = 1024

var ErrNotExist = errors.New("resource does not exist")

type byteSource interface {
	Open() (io.ReadSeekCloser, error)
}

type fileSource string

func (f fileSource) Open() (io.ReadSeekCloser, error) {
	return os.Open(string(f))
}

type memorySource []byte

type memoryReader struct {
	*bytes.Reader
}

func (memoryReader) Close() error { return nil }

func (m memorySource) Open() (io.ReadSeekCloser, error) {
	return memoryReader{bytes.NewReader(m)}, nil
}

// Resource is the outcome of resolving a request path. When Exists is
// false no other field is meaningful.
type Resource struct {
	Exists      bool
	Listing     bool
	Path        string
	ContentType string
	Disposition string
	Length      int64
	source      byteSource
}

func newFileResource(path string, size int64, types TypeResolver) *Resource {
	contentType := ContentType(types, filepath.Base(path))
	return &Resource{
		Exists:      true,
		Path:        path,
		ContentType: contentType,
		Disposition: Disposition(contentType),
		Length:      size,
		source:      fileSource(path),
	}
}

func newListingResource(path string, page []byte) *Resource {
	return &Resource{
		Exists:      true,
		Listing:     true,
		Path:        path,
		ContentType: "text/html",
		Disposition: "inline",
		Length:      int64(len(page)),
		source:      memorySource(page),
	}
}

// WriteTo streams the whole resource.
func (r *Resource) WriteTo(w io.Writer) (int64, error) {
	if !r.Exists {
		return 0, ErrNotExist
	}
	if page, ok := r.source.(memorySource); ok {
		n, err := w.Write(page)
		return int64(n), err
	}
	return r.WriteRange(w, 0, r.Length-1)
}

// WriteRange streams bytes start through end inclusive. A source that runs
// out early ends the copy without error, so fewer bytes than requested may
// be written.
func (r *Resource) WriteRange(w io.Writer, start, end int64) (int64, error) {
	if !r.Exists || r.source == nil {
		return 0, ErrNotExist
	}
	if end < start {
		return 0, nil
	}

	src, err := r.source.Open()
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", r.Path, err)
	}
	defer src.Close()

	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seeking %s to %d: %w", r.Path, start, err)
	}
	return copyN(w, src, end-start+1)
}

func copyN(w io.Writer, r io.Reader, n int64) (int64, error) {
	buf := make([]byte, BufferSize)
	var written int64
	for written < n {
		chunk := buf
		if remaining := n - written; remaining < int64(len(buf)) {
			chunk = buf[:remaining]
		}
		bytesRead, readErr := r.Read(chunk)
		if bytesRead > 0 {
			bytesWritten, writeErr := w.Write(chunk[:bytesRead])
			written += int64(bytesWritten)
			if writeErr != nil {
				return written, writeErr
			}
			if bytesWritten != bytesRead {
				return written, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
	return written, nil
}

type Resolver struct {
	Root            string
	DefaultDocument string
	Types           TypeResolver
	Renderer        listing.Renderer
}

func NewResolver(root, defaultDocument string) *Resolver {
	return &Resolver{
		Root:            root,
		DefaultDocument: defaultDocument,
		Types:           ExtensionTypes{UseSystem: true},
		Renderer:        listing.NewHTMLRenderer(),
	}
}

// Resolve maps requestPath (relative, slash separated) to a file, the
// directory's default document, or a generated listing. A path that does
// not exist or points outside the root resolves with Exists false.
func (r *Resolver) Resolve(requestPath string) (*Resource, error) {
	rel := filepath.FromSlash(requestPath)
	if rel != "" && !filepath.IsLocal(rel) {
		return &Resource{}, nil
	}
	fullPath := filepath.Join(r.Root, rel)

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return &Resource{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", fullPath, err)
	}
	if !info.IsDir() {
		return newFileResource(fullPath, info.Size(), r.Types), nil
	}

	if r.DefaultDocument != "" {
		defaultPath := filepath.Join(fullPath, r.DefaultDocument)
		if di, err := os.Stat(defaultPath); err == nil && !di.IsDir() {
			return newFileResource(defaultPath, di.Size(), r.Types), nil
		}
	}

	base := r.displayBase(requestPath)
	page, err := r.Renderer.Render(base, r.entries(fullPath, base))
	if err != nil {
		return nil, fmt.Errorf("rendering listing of %s: %w", fullPath, err)
	}
	return newListingResource(fullPath, page), nil
}

// displayBase is the URL path under which the listed directory's children
// are linked.
func (r *Resolver) displayBase(requestPath string) string {
	trimmed := strings.Trim(requestPath, "/")
	if trimmed == "" || requestPath == r.DefaultDocument {
		return "/"
	}
	return "/" + trimmed
}

// entries lists every immediate child of dir. Directories are folders and
// everything else is a file. An unreadable directory gives an empty list.
func (r *Resolver) entries(dir, base string) []listing.Entry {
	children, err := os.ReadDir(dir)
	if err != nil {
		return []listing.Entry{}
	}

	prefix := strings.TrimSuffix(base, "/") + "/"
	entries := make([]listing.Entry, 0, len(children))
	for _, child := range children {
		entry := listing.Entry{
			Name: child.Name(),
			Path: prefix + child.Name(),
			Type: listing.TypeFile,
		}
		// Symlinks are described by their target; a dangling one by the link itself.
		info, err := os.Stat(filepath.Join(dir, child.Name()))
		if err != nil {
			info, err = child.Info()
		}
		if err == nil {
			entry.LastModified = info.ModTime().Format(listing.TimeFormat)
			if info.IsDir() {
				entry.Type = listing.TypeFolder
			} else if info.Mode().IsRegular() {
				entry.Size = info.Size()
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// DirectorySize sums the sizes of all regular files below dir.
func DirectorySize(dir string) int64 {
	children, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	var total int64
	for _, child := range children {
		path := filepath.Join(dir, child.Name())
		if child.IsDir() {
			total += DirectorySize(path)
			continue
		}
		if info, err := child.Info(); err == nil && info.Mode().IsRegular() {
			total += info.Size()
		}
	}
	return total
}
