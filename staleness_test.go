package staticcompress

import (
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestClassify(t *testing.T) {
	source := time.Date(2024, 5, 1, 12, 0, 0, 500_000_000, time.UTC)

	tests := []struct {
		name     string
		exists   bool
		artifact time.Time
		readErr  error
		want     Freshness
	}{
		{"absent", false, time.Time{}, nil, Absent},
		{"absent ignores read error", false, time.Time{}, errors.New("boom"), Absent},
		{"newer", true, source.Add(time.Minute), nil, Fresh},
		{"same second earlier nanos", true, source.Add(-400 * time.Millisecond), nil, Fresh},
		{"identical", true, source, nil, Fresh},
		{"previous second", true, source.Add(-time.Second), nil, Stale},
		{"much older", true, time.Unix(1, 0), nil, Stale},
		{"unreadable", true, time.Time{}, errors.New("no mtime"), Stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(source, tt.exists, tt.artifact, tt.readErr); got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		srcSec := rapid.Int64Range(0, 4_000_000_000).Draw(t, "srcSec")
		artSec := rapid.Int64Range(0, 4_000_000_000).Draw(t, "artSec")
		srcNano := rapid.Int64Range(0, 999_999_999).Draw(t, "srcNano")
		artNano := rapid.Int64Range(0, 999_999_999).Draw(t, "artNano")

		source := time.Unix(srcSec, srcNano)
		artifact := time.Unix(artSec, artNano)

		got := Classify(source, true, artifact, nil)
		if artSec >= srcSec && got != Fresh {
			t.Fatalf("artifact at %d not fresh against source at %d", artSec, srcSec)
		}
		if artSec < srcSec && got != Stale {
			t.Fatalf("artifact at %d not stale against source at %d", artSec, srcSec)
		}
		if Classify(source, false, artifact, nil) != Absent {
			t.Fatal("missing artifact not absent")
		}
	})
}

func TestFreshnessString(t *testing.T) {
	for f, want := range map[Freshness]string{Absent: "absent", Stale: "stale", Fresh: "fresh", Freshness(9): "unknown"} {
		if f.String() != want {
			t.Errorf("Freshness(%d).String() = %q, want %q", int(f), f.String(), want)
		}
	}
}
