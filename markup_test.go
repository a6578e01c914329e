package vignette

import (
	"reflect"
	"testing"
)

func TestParseMarkup(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{"plain", "hello", []string{"hello"}},
		{"newline", "one\ntwo", []string{"one", "two"}},
		{"crlf", "one\r\ntwo", []string{"one", "two"}},
		{"br", "one<br>two<br/>three", []string{"one", "two", "three"}},
		{"inline tags dropped", "a <b>bold</b> word", []string{"a bold word"}},
		{"whitespace collapsed", "  lots   of\tspace ", []string{"lots of space"}},
		{"blank line kept", "a\n\nb", []string{"a", "", "b"}},
		{"paragraphs", "<p>first</p><p>second</p>", []string{"first", "second"}},
		{"entities", "fish &amp; chips", []string{"fish & chips"}},
		{"empty", "", []string{""}},
		{"ruby annotation dropped", "<ruby>見出<rt>みだ</rt></ruby>し１", []string{"見出し１"}},
		{"ruby with rp", "<ruby>漢<rp>(</rp><rt>かん</rt><rp>)</rp></ruby>字", []string{"漢字"}},
		{"ruby unclosed rt", "<ruby>字<rt>じ</ruby> end", []string{"字 end"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseMarkup(tt.markup)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseMarkup(%q) = %q, want %q", tt.markup, got, tt.want)
			}
		})
	}
}

func TestElementSetMarkup(t *testing.T) {
	el := NewElement("caption")
	el.SetMarkup("hi\nthere")
	if el.Markup() != "hi\nthere" {
		t.Errorf("Markup() = %q", el.Markup())
	}
	if got := el.Lines(); len(got) != 2 || got[1] != "there" {
		t.Errorf("Lines() = %q, want [hi there]", got)
	}
	el.SetText("plain")
	if el.Markup() != "" || len(el.Lines()) != 1 {
		t.Errorf("SetText did not replace markup: %q %q", el.Markup(), el.Lines())
	}
}
