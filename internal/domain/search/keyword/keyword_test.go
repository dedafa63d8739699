package keyword

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"comma list", "Lagos, Plumber, 5000", []string{"Lagos", "Plumber", "5000"}},
		{"newlines and bullets", "- Lagos\n- Plumber\n* 5000", []string{"Lagos", "Plumber", "5000"}},
		{"labels stripped", "City: Abuja, Service: Photography", []string{"City Abuja", "Service Photography"}},
		{"parenthetical dropped", "Ikeja (Lagos State), wedding photographer", []string{"Ikeja", "wedding photographer"}},
		{"hyphen inside word", "e-commerce, full-time", []string{"ecommerce", "fulltime"}},
		{"empty segments", " , ,Lagos,,\n\n", []string{"Lagos"}},
		{"duplicates and case kept", "lagos, Lagos, lagos", []string{"lagos", "Lagos", "lagos"}},
		{"empty input", "", []string{}},
		{"only markup", "***\n---\n:::", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTokenize_ParentheticalIsLineBound(t *testing.T) {
	got := Tokenize("Lagos (near\nIkeja), Plumber")
	want := []string{"Lagos (near", "Ikeja)", "Plumber"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTokenize_NoEmptyOrPaddedTokens(t *testing.T) {
	inputs := []string{
		"  Lagos  ,\tPlumber\t, 5000 ",
		"\n\n- a\n-\n- b\n",
		"(x), (y), z",
		"Keywords: web design, Abuja, FCT, 20000",
	}
	for _, in := range inputs {
		for _, tok := range Tokenize(in) {
			if tok == "" {
				t.Errorf("Tokenize(%q) produced an empty token", in)
			}
			if tok != strings.TrimSpace(tok) {
				t.Errorf("Tokenize(%q) produced untrimmed token %q", in, tok)
			}
		}
	}
}

func TestTokenize_IdempotentOnCleanInput(t *testing.T) {
	first := Tokenize("web design, Abuja, FCT, 20000")
	second := Tokenize(strings.Join(first, ", "))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("not idempotent: %q then %q", first, second)
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"5000", 5000, true},
		{"5000 naira", 5000, true},
		{"20k", 20, true},
		{"+15", 15, true},
		{"-3", -3, true},
		{"007", 7, true},
		{"$5000", 0, false},
		{"Lagos", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := LeadingInt(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("LeadingInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHasSpace(t *testing.T) {
	if !HasSpace("web design") {
		t.Error("expected space detected")
	}
	if !HasSpace("web\tdesign") {
		t.Error("expected tab detected")
	}
	if !HasSpace("Jane\u00a0Doe") {
		t.Error("expected no-break space detected")
	}
	if HasSpace("plumber") {
		t.Error("single word must not report space")
	}
}
