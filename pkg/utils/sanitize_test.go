package utils

import "testing"

func TestSanitizeHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"keeps formatting", "<p>We need <strong>Go</strong> skills</p>", "<p>We need <strong>Go</strong> skills</p>"},
		{"drops scripts", `<p>hi</p><script>alert(1)</script>`, "<p>hi</p>"},
		{"unwraps unknown tags", `<div class="x"><span>text</span></div>`, "text"},
		{"strips attributes", `<p style="color:red" onclick="x()">a</p>`, "<p>a</p>"},
		{"keeps safe links", `<a href="https://example.com/apply">apply</a>`, `<a href="https://example.com/apply" rel="nofollow noopener" target="_blank">apply</a>`},
		{"drops javascript links", `<a href="javascript:alert(1)">x</a>`, "<a>x</a>"},
		{"escapes text", "1 < 2 & 3", "1 &lt; 2 &amp; 3"},
		{"line breaks", "a<br>b", "a<br>b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeHTML(tc.in); got != tc.want {
				t.Fatalf("SanitizeHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText("<h2>Role</h2><p>Build <em>APIs</em></p><style>p{}</style>")
	if got != "Role Build APIs" {
		t.Fatalf("unexpected plain text %q", got)
	}
}
