package highlight

import (
	"strings"
	"testing"
)

func TestIsLanguage(t *testing.T) {
	for _, name := range []string{"python", "go", "javascript", "rust"} {
		if !IsLanguage(name) {
			t.Errorf("IsLanguage(%q) = false, want true", name)
		}
	}
	// Aliases resolve too, same as pygments.
	if !IsLanguage("js") {
		t.Error(`IsLanguage("js") = false, want true (alias)`)
	}
	if IsLanguage("not-a-language") {
		t.Error(`IsLanguage("not-a-language") = true, want false`)
	}
	if IsLanguage("") {
		t.Error(`IsLanguage("") = true, want false`)
	}
}

func TestIsStyle(t *testing.T) {
	for _, name := range []string{"friendly", "monokai"} {
		if !IsStyle(name) {
			t.Errorf("IsStyle(%q) = false, want true", name)
		}
	}
	if IsStyle("not-a-style") {
		t.Error(`IsStyle("not-a-style") = true, want false`)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	// The defaults are fed straight into Render for every snippet that omits
	// them; they had better be registered.
	if !IsLanguage(DefaultLanguage) {
		t.Errorf("DefaultLanguage %q is not a registered lexer", DefaultLanguage)
	}
	if !IsStyle(DefaultStyle) {
		t.Errorf("DefaultStyle %q is not a registered style", DefaultStyle)
	}
}

func TestRender(t *testing.T) {
	out, err := Render("print(1)", "python", "friendly", false)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Standalone document with the code in it.
	if !strings.Contains(out, "<html>") {
		t.Error("Render() output is not a standalone HTML document")
	}
	if !strings.Contains(out, "print") {
		t.Errorf("Render() output does not contain the code: %.200s", out)
	}
}

func TestRender_LineNumbers(t *testing.T) {
	code := "a = 1\nb = 2\nc = 3"

	with, err := Render(code, "python", "friendly", true)
	if err != nil {
		t.Fatalf("Render(linenos=true) error = %v", err)
	}
	without, err := Render(code, "python", "friendly", false)
	if err != nil {
		t.Fatalf("Render(linenos=false) error = %v", err)
	}

	// Not asserting chroma's exact markup — just that the flag changes the
	// rendering and the numbered variant mentions line 3.
	if with == without {
		t.Error("linenos=true produced identical output to linenos=false")
	}
	if !strings.Contains(with, "3") {
		t.Error("linenos=true output does not contain a line number 3")
	}
}

func TestRender_UnknownLanguageFallsBack(t *testing.T) {
	// Stored data predating a lexer rename must still render.
	out, err := Render("some text", "no-such-lexer", "friendly", false)
	if err != nil {
		t.Fatalf("Render() with unknown language error = %v", err)
	}
	if !strings.Contains(out, "some text") {
		t.Error("fallback rendering lost the code text")
	}
}

func TestRender_EscapesHTML(t *testing.T) {
	out, err := Render(`x = "<script>alert(1)</script>"`, "python", "friendly", false)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	// The code must be escaped, not injected into the page as live markup.
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("Render() output contains unescaped <script> from the code")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Error("Render() output does not contain the escaped code text")
	}
}
