package sysutil

import (
	"net/url"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	for in, want := range map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		" DEBUG\t": zerolog.DebugLevel,
		"":         zerolog.InfoLevel,
		"info":     zerolog.InfoLevel,
		"Warning":  zerolog.WarnLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"fatal":    zerolog.FatalLevel,
		"panic":    zerolog.PanicLevel,
		"verbose":  zerolog.InfoLevel,
		"trace":    zerolog.InfoLevel,
		"ErrOr   ": zerolog.ErrorLevel,
	} {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		SetLogLevel(in)
		if got := zerolog.GlobalLevel(); got != want {
			t.Errorf("SetLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// The notifications list reads ?unread= through IsTruthy after gin has
// decoded the query string; the first value wins.
func TestIsTruthy_UnreadQuery(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"unread=true", true},
		{"unread=1", true},
		{"unread=on", true},
		{"unread=Yes", true},
		{"unread=y", true},
		{"unread=%20TRUE%20", true},
		{"unread=true&unread=false", true},
		{"unread=false&unread=true", false},
		{"", false},
		{"unread", false},
		{"unread=", false},
		{"unread=0", false},
		{"unread=off", false},
		{"unread=no", false},
		{"unread=truthy", false},
		{"unread=t", false},
		{"read=true", false},
	}
	for _, tc := range cases {
		q, err := url.ParseQuery(tc.query)
		if err != nil {
			t.Fatalf("ParseQuery(%q): %v", tc.query, err)
		}
		if got := IsTruthy(q.Get("unread")); got != tc.want {
			t.Errorf("?%s -> %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestFirstNonEmpty_VersionFallback(t *testing.T) {
	const built = "1.4.0"

	// APP_VERSION overrides the build version only when set to something.
	if got := FirstNonEmpty("", built); got != built {
		t.Fatalf("unset env: %q", got)
	}
	if got := FirstNonEmpty(" \t\n", built); got != built {
		t.Fatalf("blank env: %q", got)
	}
	if got := FirstNonEmpty("2.0.0-rc1", built); got != "2.0.0-rc1" {
		t.Fatalf("env set: %q", got)
	}
	// the chosen value is returned untrimmed
	if got := FirstNonEmpty(" v2 ", built); got != " v2 " {
		t.Fatalf("padded env: %q", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("no values: %q", got)
	}
}
