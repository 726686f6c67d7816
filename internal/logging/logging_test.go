package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" INFO ", zerolog.InfoLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tc := range cases {
		got, ok := parseLevel(tc.raw)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("parseLevel(%q) = (%v, %v), want (%v, %v)", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseBool(t *testing.T) {
	if v, ok := parseBool("true"); !v || !ok {
		t.Fatalf("parseBool(true) = (%v, %v)", v, ok)
	}
	if _, ok := parseBool(""); ok {
		t.Fatalf("empty input must not parse")
	}
	if _, ok := parseBool("maybe"); ok {
		t.Fatalf("garbage input must not parse")
	}
}
