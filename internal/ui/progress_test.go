package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"keel/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("lowering", []string{"a.kl", "b.kl"}, events).(*progressModel)

	m.applyEvent(driver.Event{File: "a.kl", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.items[0].status != "parsing" || m.percent() != 0.15 {
		t.Fatalf("unexpected state %+v %v", m.items[0], m.percent())
	}
	m.applyEvent(driver.Event{File: "a.kl", Stage: driver.StageLower, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "a.kl", Stage: driver.StageLower, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "b.kl", Stage: driver.StageLower, Status: driver.StatusError, Err: errors.New("broken tree")})
	m.applyEvent(driver.Event{File: "unknown.kl", Status: driver.StatusDone})

	if m.finished != 2 || m.percent() != 1 {
		t.Fatalf("expected both files finished once, got %d (%v)", m.finished, m.percent())
	}
	view := m.View()
	if !strings.Contains(view, "lowering 2/2") || !strings.Contains(view, "broken tree") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.kl", 20); got != "short.kl" {
		t.Fatalf("short values must be kept, got %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected a hard cut, got %q", got)
	}
	for _, in := range []string{"a/very/long/path.kl", "名前名前名前名前"} {
		got := truncate(in, 10)
		if !strings.HasSuffix(got, "...") || runewidth.StringWidth(got) > 10 {
			t.Fatalf("truncate(%q) = %q", in, got)
		}
	}
}
