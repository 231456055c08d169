package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses newline runs",
			in:   "first paragraph.\n\n\n\n\nsecond paragraph.",
			want: "first paragraph.\n\nsecond paragraph.",
		},
		{
			name: "strips page footers",
			in:   "the cell membrane. Page 12 of 840 more text.",
			want: "the cell membrane. more text.",
		},
		{
			name: "strips footnote markers",
			in:   "water is polar[12] and cohesive[3].",
			want: "water is polar and cohesive.",
		},
		{
			name: "collapses tabs and spaces",
			in:   "energy \t\t is  conserved.",
			want: "energy is conserved.",
		},
		{
			name: "normalizes blank lines with stray whitespace",
			in:   "one.\n \t \nTwo.",
			want: "one.\n\nTwo.",
		},
		{
			name: "trims surrounding whitespace",
			in:   "  \n content. \n ",
			want: "content.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}
