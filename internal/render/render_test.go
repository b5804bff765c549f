package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_ParsesEmbeddedTemplates(t *testing.T) {
	if _, err := New(); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestPage_RendersAllContextFields(t *testing.T) {
	r := Must()

	var buf bytes.Buffer
	err := r.Page(&buf, Context{
		Title:    "Not Found",
		Header:   "404 Error",
		Message:  "Sorry, the page you are looking for does not exist.",
		Redirect: "Please return to the homepage.",
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"<title>Not Found</title>",
		"404 Error",
		"Sorry, the page you are looking for does not exist.",
		"Please return to the homepage.",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered page missing %q:\n%s", want, out)
		}
	}
}

func TestPage_EscapesHTML(t *testing.T) {
	r := Must()

	var buf bytes.Buffer
	if err := r.Page(&buf, Context{Message: `<script>alert("x")</script>`}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("message not escaped:\n%s", buf.String())
	}
}
