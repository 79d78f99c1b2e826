package handler

import (
	"strings"
	"testing"
)

func TestSanitizeContent(t *testing.T) {
	api := &API{sanitizer: buildContentSanitizer()}

	tests := []struct {
		name    string
		input   string
		keep    []string
		dropped []string
	}{
		{
			name:  "editor formatting",
			input: `<p class="ql-align-center ql-indent-1"><strong>粗体</strong></p>`,
			keep:  []string{`class="ql-align-center ql-indent-1"`, "<strong>粗体</strong>"},
		},
		{
			name:  "code block language",
			input: `<pre spellcheck="false"><code class="language-go">fmt.Println()</code></pre>`,
			keep:  []string{`class="language-go"`, `spellcheck="false"`},
		},
		{
			name:    "script and handlers",
			input:   `<p onclick="x()">a</p><script>alert(1)</script>`,
			keep:    []string{"<p>a</p>"},
			dropped: []string{"onclick", "<script"},
		},
		{
			name:    "javascript links",
			input:   `<a href="javascript:alert(1)">x</a>`,
			dropped: []string{"javascript:"},
		},
		{
			name:    "class injection",
			input:   `<p class="a&quot; onclick=&quot;x">a</p>`,
			dropped: []string{"onclick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := api.sanitizeContent(tt.input)
			for _, want := range tt.keep {
				if !strings.Contains(got, want) {
					t.Fatalf("expected %q in %q", want, got)
				}
			}
			for _, bad := range tt.dropped {
				if strings.Contains(got, bad) {
					t.Fatalf("expected %q to be removed from %q", bad, got)
				}
			}
		})
	}

	if got := api.sanitizeContent(""); got != "" {
		t.Fatalf("empty content must stay empty, got %q", got)
	}
}
