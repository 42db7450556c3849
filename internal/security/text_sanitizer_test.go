package security

import "testing"

func TestTextSanitizer_RemovesScriptTags(t *testing.T) {
	s := NewTextSanitizer()

	got := s.Sanitize(`before<script>alert("x")</script>after`)
	if got != "beforeafter" {
		t.Errorf("Sanitize = %q, want %q", got, "beforeafter")
	}
}

func TestTextSanitizer_RemovesAllMarkup(t *testing.T) {
	s := NewTextSanitizer()

	got := s.Sanitize(`<b>bold</b> and <a href="https://example.com">link</a>`)
	if got != "bold and link" {
		t.Errorf("Sanitize = %q, want %q", got, "bold and link")
	}
}

func TestTextSanitizer_PlainTextUnchanged(t *testing.T) {
	s := NewTextSanitizer()

	in := "ポートフォリオサイトの管理画面"
	if got := s.Sanitize(in); got != in {
		t.Errorf("Sanitize = %q, want unchanged %q", got, in)
	}
}

func TestTextSanitizer_EmptyInput(t *testing.T) {
	s := NewTextSanitizer()

	if got := s.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

func TestTextSanitizer_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	once := s.Sanitize(`<i>text</i>`)
	twice := s.Sanitize(once)
	if once != twice {
		t.Errorf("Sanitize is not idempotent: %q != %q", once, twice)
	}
}
