package resource

import (
	"mime"
	"path/filepath"
	"strings"
)

// TypeResolver maps a file name to a MIME type. An empty result means the
// type is unknown.
type TypeResolver interface {
	TypeOf(name string) string
}

// builtinTypes keeps common types stable regardless of the host's MIME
// database.
var builtinTypes = map[string]string{
	".css":  "text/css",
	".csv":  "text/csv",
	".gif":  "image/gif",
	".htm":  "text/html",
	".html": "text/html",
	".ico":  "image/x-icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".js":   "application/javascript",
	".json": "application/json",
	".md":   "text/markdown",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".txt":  "text/plain",
	".wasm": "application/wasm",
	".webp": "image/webp",
	".xml":  "text/xml",
	".zip":  "application/zip",
}

// ExtensionTypes looks a name up in the builtin table and then in the
// system MIME database.
type ExtensionTypes struct {
	// UseSystem enables the mime.TypeByExtension lookup.
	UseSystem bool
}

func (e ExtensionTypes) TypeOf(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	if t, ok := builtinTypes[ext]; ok {
		return t
	}
	if e.UseSystem {
		if t := mime.TypeByExtension(ext); t != "" {
			return strings.TrimSpace(strings.Split(t, ";")[0])
		}
	}
	return ""
}

// ContentType applies the fallback rule for unknown types: ".js" files are
// application/javascript, everything else text/plain.
func ContentType(types TypeResolver, name string) string {
	if t := types.TypeOf(name); t != "" {
		return t
	}
	if strings.HasSuffix(name, ".js") {
		return "application/javascript"
	}
	return "text/plain"
}

// Disposition is inline for text/* types and attachment otherwise.
func Disposition(contentType string) string {
	primary, _, _ := strings.Cut(contentType, "/")
	if primary == "text" {
		return "inline"
	}
	return "attachment"
}
