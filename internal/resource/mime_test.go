package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedTypes map[string]string

func (f fixedTypes) TypeOf(name string) string { return f[name] }

func TestContentType(t *testing.T) {
	types := ExtensionTypes{}
	assert.Equal(t, "text/html", ContentType(types, "index.html"))
	assert.Equal(t, "text/html", ContentType(types, "INDEX.HTML"))
	assert.Equal(t, "image/jpeg", ContentType(types, "cat.jpg"))
	assert.Equal(t, "text/plain", ContentType(types, "Makefile"))
	assert.Equal(t, "text/plain", ContentType(types, "data.unknownext"))

	// Test: Fallback rule only applies when the resolver has no answer
	empty := fixedTypes{}
	assert.Equal(t, "application/javascript", ContentType(empty, "app.js"))
	assert.Equal(t, "text/plain", ContentType(empty, "app.json"))
	assert.Equal(t, "text/plain", ContentType(empty, "js"))
	assert.Equal(t, "application/x-custom", ContentType(fixedTypes{"a.js": "application/x-custom"}, "a.js"))
}

func TestExtensionTypesSystem(t *testing.T) {
	// mime's builtin table always knows .avif; the local table does not.
	assert.Equal(t, "", ExtensionTypes{}.TypeOf("pic.avif"))
	assert.Equal(t, "image/avif", ExtensionTypes{UseSystem: true}.TypeOf("pic.avif"))
}

func TestDisposition(t *testing.T) {
	assert.Equal(t, "inline", Disposition("text/plain"))
	assert.Equal(t, "inline", Disposition("text/html"))
	assert.Equal(t, "attachment", Disposition("application/javascript"))
	assert.Equal(t, "attachment", Disposition("image/png"))
	assert.Equal(t, "attachment", Disposition("textual/odd"))
}
