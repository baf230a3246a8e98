// Package listing renders directory entries as an HTML index page.
package listing

import (
	"bytes"
	"html/template"
	"sort"

	"github.com/dustin/go-humanize"
)

const (
	TypeFile   = "file"
	TypeFolder = "folder"

	// TimeFormat is the layout of Entry.LastModified.
	TimeFormat = "2006-01-02 15:04"
)

type Entry struct {
	Name         string
	Path         string
	LastModified string
	Type         string
	Size         int64
}

type Renderer interface {
	Render(title string, entries []Entry) ([]byte, error)
}

type HTMLRenderer struct {
	tmpl *template.Template
}

var page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Index of {{.Title}}</title>
<style>
body { font-family: sans-serif; }
table { border-collapse: collapse; }
th, td { padding: 0.25em 0.75em; text-align: left; }
</style>
</head>
<body>
<h1>Index of {{.Title}}</h1>
<table>
<tr><th>Name</th><th>Last Modified</th><th>Type</th><th>Size</th></tr>
{{- range .Entries}}
<tr class="entry"><td><a href="{{.Path}}">{{.Name}}</a></td><td>{{.LastModified}}</td><td>{{.Type}}</td><td data-size="{{.Size}}">{{size .}}</td></tr>
{{- end}}
</table>
</body>
</html>
`

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"size": func(e Entry) string {
			if e.Type == TypeFolder {
				return "-"
			}
			return humanize.Bytes(uint64(e.Size))
		},
	}
	return &HTMLRenderer{
		tmpl: template.Must(template.New("listing").Funcs(funcs).Parse(page)),
	}
}

// Render writes one table row per entry, folders first and then by name.
// The caller's slice is left untouched.
func (r *HTMLRenderer) Render(title string, entries []Entry) ([]byte, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type == TypeFolder
		}
		return sorted[i].Name < sorted[j].Name
	})

	buf := &bytes.Buffer{}
	err := r.tmpl.Execute(buf, struct {
		Title   string
		Entries []Entry
	}{title, sorted})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
