package headers

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Headers keeps field names exactly as received. A repeated key replaces
// the earlier value.
type Headers map[string]string

func NewHeaders() Headers {
	return make(Headers)
}

func (h Headers) Get(key string) (string, bool) {
	value, ok := h[key]
	return value, ok
}

func (h Headers) Has(key string) bool {
	_, ok := h[key]
	return ok
}

func (h Headers) Set(key, value string) {
	h[key] = value
}

// Parse consumes a single header line (without its line terminator).
// A line that contains no colon, the empty line included, ends the header
// block and reports done.
func (h Headers) Parse(line string) (done bool) {
	colon := strings.IndexByte(line, ':')
	if colon == -1 {
		return true
	}

	key := line[:colon]
	// One space after the colon is assumed and skipped.
	value := ""
	if colon+2 <= len(line) {
		value = line[colon+2:]
	}
	h[key] = value
	return false
}

// Keys returns the field names in sorted order.
func (h Headers) Keys() []string {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Write emits every field as "Key: value\r\n" in sorted key order followed
// by the blank line that ends the block.
func (h Headers) Write(w io.Writer) error {
	for _, key := range h.Keys() {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", key, h[key]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
