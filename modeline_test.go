package yamlls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindModeline(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "equals form",
			text: "# yaml-language-server: $schema=https://example.com/s.json\nname: web\n",
			want: "https://example.com/s.json",
		},
		{
			name: "colon form",
			text: "# yaml-language-server: $schema: https://example.com/s.json\nname: web\n",
			want: "https://example.com/s.json",
		},
		{
			name: "blank lines before comment are fine",
			text: "\n\n# yaml-language-server: $schema=https://example.com/s.json\nname: web\n",
			want: "https://example.com/s.json",
		},
		{
			name: "no modeline",
			text: "name: web\n",
			want: "",
		},
		{
			name: "comment after content is not the leading block",
			text: "name: web\n# yaml-language-server: $schema=https://example.com/s.json\n",
			want: "",
		},
		{
			name: "unrelated leading comment",
			text: "# just a comment\nname: web\n",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findModeline(tt.text))
		})
	}
}
