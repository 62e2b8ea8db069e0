package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

func TestParseDensity(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"low", physics.DensityLow, false},
		{"Normal", physics.DensityNormal, false},
		{"high", physics.DensityHigh, false},
		{"2.5", 2.5, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"thick", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDensity(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSchedule(t *testing.T) {
	got, err := parseSchedule("300:low, 100:3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []sim.DensityChange{{Tick: 100, Density: 3}, {Tick: 300, Density: physics.DensityLow}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, got[i], want[i])
		}
	}

	if got, err := parseSchedule("  "); err != nil || got != nil {
		t.Errorf("empty schedule = %v, %v", got, err)
	}

	for _, bad := range []string{"100", "x:1", "0:1", "10:thick"} {
		if _, err := parseSchedule(bad); err == nil {
			t.Errorf("parseSchedule(%q) should fail", bad)
		}
	}
}

func TestTransitionLogger(t *testing.T) {
	var buf bytes.Buffer
	setupLogging(&buf, true, true)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	transitionLogger{}.OnTransition(physics.Transition{Tick: 27, Body: 1, From: physics.Falling, To: physics.Water})

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("not json: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "phase change" || rec["from"] != "falling" || rec["to"] != "water" {
		t.Errorf("unexpected record %v", rec)
	}
}

func TestSetupLogging_InfoHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	setupLogging(&buf, false, false)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	transitionLogger{}.OnTransition(physics.Transition{Tick: 1, Stopped: true})
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %q", buf.String())
	}
	logRunSummary("single", &sim.Result{Ticks: 487, Settled: true}, 0)
	if !strings.Contains(buf.String(), "run finished") {
		t.Errorf("missing summary: %q", buf.String())
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    paramRange
		wantErr bool
	}{
		{"bounce_height:5:15:3", paramRange{"bounce_height", 5, 15, 3}, false},
		{" gravity:0.5:1:1 ", paramRange{"gravity", 0.5, 1, 1}, false},
		{"gravity:1:2", paramRange{}, true},
		{"gravity:a:2:3", paramRange{}, true},
		{"gravity:1:2:0", paramRange{}, true},
	}

	for _, tt := range tests {
		got, err := parseRange(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRange(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRange(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
