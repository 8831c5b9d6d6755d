package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Already-Sluggy", "already-sluggy"},
		{"Symbols!@#Between$$Words", "symbols-between-words"},
		{"Ends With Punctuation!", "ends-with-punctuation"},
		{"Numbers 123 ok", "numbers-123-ok"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestOrSlug(t *testing.T) {
	assert.Equal(t, "given", orSlug("Given", "Fallback Title"))
	assert.Equal(t, "fallback-title", orSlug("", "Fallback Title"))
}
