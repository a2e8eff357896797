package calendar

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestScheduleWritesICSFile(t *testing.T) {
	dir := t.TempDir()
	d := NewDirectory(dir)
	d.now = func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC) }

	start := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)
	uid, err := d.Schedule(context.Background(), Event{
		Title:    "Oak removal",
		Start:    start,
		End:      start.Add(4 * time.Hour),
		Location: "12 Elm St",
		Notes:    "Bring the crane",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if !strings.HasSuffix(uid, "@arborcost") {
		t.Fatalf("unexpected uid %q", uid)
	}

	raw, err := os.ReadFile(d.Path(uid))
	if err != nil {
		t.Fatalf("read event file: %v", err)
	}
	body := string(raw)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"UID:" + uid,
		"SUMMARY:Oak removal",
		"LOCATION:12 Elm St",
		"DTSTART:20240315T130000Z",
		"DTEND:20240315T170000Z",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in event:\n%s", want, body)
		}
	}
}

func TestScheduleRejectsInvalidEvents(t *testing.T) {
	d := NewDirectory(t.TempDir())
	start := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)

	cases := []Event{
		{Start: start, End: start.Add(time.Hour)},
		{Title: "Backwards", Start: start, End: start.Add(-time.Hour)},
		{Title: "Zero length", Start: start, End: start},
	}
	for _, ev := range cases {
		if _, err := d.Schedule(context.Background(), ev); !errors.Is(err, ErrInvalidEvent) {
			t.Fatalf("%q: expected invalid event, got %v", ev.Title, err)
		}
	}
}

func TestScheduleHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := NewDirectory(t.TempDir()).Schedule(ctx, Event{Title: "Late", Start: start, End: start.Add(time.Hour)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}
