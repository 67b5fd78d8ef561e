package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tp := New()

	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "emphasis and strikethrough",
			input:    "**bold** and ~~gone~~",
			contains: []string{"<strong>bold</strong>", "<del>gone</del>"},
		},
		{
			name:     "script is stripped",
			input:    "hi <script>alert(1)</script>",
			contains: []string{"hi"},
			absent:   []string{"<script", "alert(1)"},
		},
		{
			name:   "event handlers are stripped",
			input:  `<img src="x.png" onerror="alert(1)">`,
			absent: []string{"onerror"},
		},
		{
			name:   "javascript links are dropped",
			input:  "[click](javascript:alert(1))",
			absent: []string{"javascript:"},
		},
		{
			name:     "links get nofollow",
			input:    "see https://example.com",
			contains: []string{`href="https://example.com"`, "nofollow"},
		},
		{
			name:     "line breaks are kept",
			input:    "first\nsecond",
			contains: []string{"<br"},
		},
		{
			name:     "korean text survives",
			input:    "게시글 내용",
			contains: []string{"게시글 내용"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(tp.Render(tt.input))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}
