package stringsx

import "testing"

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", " ", " x ", "y"); got != "x" {
		t.Fatalf("FirstNonEmpty: want 'x', got %q", got)
	}
	if got := FirstNonEmpty("", ""); got != "" {
		t.Fatalf("FirstNonEmpty empty: want '', got %q", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"  Chapter\n\tOne  ":   "Chapter One",
		"Already single space": "Already single space",
	}
	for in, want := range cases {
		if got := CollapseSpace(in); got != want {
			t.Errorf("CollapseSpace(%q) = %q, want %q", in, got, want)
		}
	}
}
