// Package calendar books work orders as iCalendar events.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

var ErrInvalidEvent = errors.New("invalid calendar event")

// Event is what the calendar needs to book a work order.
type Event struct {
	Title    string
	Start    time.Time
	End      time.Time
	Location string
	Notes    string
}

// Scheduler books an event and returns an opaque identifier for it.
type Scheduler interface {
	Schedule(ctx context.Context, ev Event) (string, error)
}

// Directory writes one .ics file per event into a directory that a calendar
// client can subscribe to or import from.
type Directory struct {
	dir string
	now func() time.Time
}

// NewDirectory writes events into dir, creating it on first use.
func NewDirectory(dir string) *Directory {
	return &Directory{dir: dir, now: time.Now}
}

// Schedule writes ev as an .ics file and returns its UID.
func (d *Directory) Schedule(ctx context.Context, ev Event) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if ev.Title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidEvent)
	}
	if !ev.End.After(ev.Start) {
		return "", fmt.Errorf("%w: end must be after start", ErrInvalidEvent)
	}

	uid := uuid.NewString() + "@arborcost"
	body := Render(uid, ev, d.now())

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create calendar dir: %w", err)
	}
	if err := os.WriteFile(d.Path(uid), []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write calendar event: %w", err)
	}
	return uid, nil
}

// Path is where the event with uid is written.
func (d *Directory) Path(uid string) string {
	return filepath.Join(d.dir, uid+".ics")
}

// Render serializes a single-event calendar.
func Render(uid string, ev Event, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//arborcost//work orders//EN")

	vev := cal.AddEvent(uid)
	vev.SetCreatedTime(stamp)
	vev.SetDtStampTime(stamp)
	vev.SetStartAt(ev.Start)
	vev.SetEndAt(ev.End)
	vev.SetSummary(ev.Title)
	if ev.Location != "" {
		vev.SetLocation(ev.Location)
	}
	if ev.Notes != "" {
		vev.SetDescription(ev.Notes)
	}
	return cal.Serialize()
}
