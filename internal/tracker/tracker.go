// Package tracker coordinates the record store, the clock and the calendar feed.
// Every front end goes through a Tracker so they all see the same derived data.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
)

// Repository is the persistence surface used by the tracker. *store.Store satisfies it.
type Repository interface {
	List(ctx context.Context) ([]engine.SpecialDay, error)
	Get(ctx context.Context, id string) (engine.SpecialDay, error)
	Add(ctx context.Context, d engine.SpecialDay) (engine.SpecialDay, error)
	Update(ctx context.Context, d engine.SpecialDay) error
	Delete(ctx context.Context, id string) error
	UpsertImported(ctx context.Context, days []engine.SpecialDay) (inserted, updated int, err error)
	Reset(ctx context.Context) error
}

// Publisher receives the rendered iCalendar feed. *server.FeedServer satisfies it.
type Publisher interface {
	Publish(data []byte)
}

// Tracker is safe for concurrent use as long as its Repository is.
type Tracker struct {
	repo      Repository
	clock     engine.Clock
	importer  *engine.Importer
	publisher Publisher
}

// New wires a tracker. fetcher and publisher may be nil.
func New(repo Repository, clock engine.Clock, fetcher engine.VCardFetcher, publisher Publisher) *Tracker {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &Tracker{
		repo:      repo,
		clock:     clock,
		importer:  &engine.Importer{Clock: clock, Fetcher: fetcher},
		publisher: publisher,
	}
}

// Now returns the tracker clock reading.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Entry is a record with everything a front end needs to draw it.
type Entry struct {
	Day       engine.SpecialDay
	Countdown engine.Countdown
	Color     engine.RGBA

	// Next is the next yearly occurrence; zero for one-off days.
	Next     time.Time
	NextDays int
}

// Snapshot is the derived, filtered view of the collection at one instant.
type Snapshot struct {
	Now     time.Time
	State   engine.ViewState
	Entries []Entry

	// Stats covers the whole collection, not only the filtered entries.
	Stats engine.Stats
	Today int
}

// Count returns the number of visible entries.
func (s Snapshot) Count() int {
	return len(s.Entries)
}

// Contains reports whether the snapshot holds the record with the given ID.
func (s Snapshot) Contains(id string) bool {
	for _, e := range s.Entries {
		if e.Day.ID == id {
			return true
		}
	}
	return false
}

// Translator is the subset of *locale.Translator used to format titles.
type Translator interface {
	Msg(key string) string
	Format(key string, data map[string]any) string
}

// NavTitle formats "<filter title> (<count>)".
func (s Snapshot) NavTitle(tr Translator) string {
	return tr.Format(config.TKeyNavTitle, map[string]any{
		"Title": tr.Msg(s.State.Filter.TitleKey()),
		"Count": s.Count(),
	})
}

// Snapshot reads the clock once and derives every countdown from that instant.
func (t *Tracker) Snapshot(ctx context.Context, state engine.ViewState) (Snapshot, error) {
	days, err := t.repo.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	now := t.clock.Now()
	snap := Snapshot{
		Now:   now,
		State: state,
		Stats: engine.ComputeStats(days, now),
		Today: engine.CountToday(days, now),
	}

	visible := state.Filter.Apply(days, now)
	snap.Entries = make([]Entry, 0, len(visible))
	for _, d := range visible {
		snap.Entries = append(snap.Entries, newEntry(d, now))
	}
	return snap, nil
}

func newEntry(d engine.SpecialDay, now time.Time) Entry {
	color, err := engine.ParseHexColor(d.Color())
	if err != nil {
		slog.Debug(config.MsgBadColor,
			config.LogKeyComponent, config.CompTracker,
			config.LogKeyID, d.ID,
			config.LogKeyValue, d.ThemeColor)
	}

	e := Entry{
		Day:       d,
		Countdown: d.Countdown(now),
		Color:     color,
	}
	if d.Recurs {
		e.Next = engine.NextOccurrence(d, now)
		e.NextDays = engine.DaysDifference(now, e.Next)
	}
	return e
}

// Get returns one record.
func (t *Tracker) Get(ctx context.Context, id string) (engine.SpecialDay, error) {
	return t.repo.Get(ctx, id)
}

// Add stores a new record and republishes the feed.
func (t *Tracker) Add(ctx context.Context, d engine.SpecialDay) (engine.SpecialDay, error) {
	added, err := t.repo.Add(ctx, d)
	if err != nil {
		return engine.SpecialDay{}, err
	}
	t.republish(ctx)
	return added, nil
}

// Update saves an edited record and republishes the feed.
func (t *Tracker) Update(ctx context.Context, d engine.SpecialDay) error {
	if err := t.repo.Update(ctx, d); err != nil {
		return err
	}
	t.republish(ctx)
	return nil
}

// Delete removes a record and republishes the feed.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.repo.Delete(ctx, id); err != nil {
		return err
	}
	t.republish(ctx)
	return nil
}

// Reset deletes every record.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.repo.Reset(ctx); err != nil {
		return err
	}
	t.republish(ctx)
	return nil
}

// ImportResult reports how a vCard import changed the store.
type ImportResult struct {
	Inserted int
	Updated  int
}

// Total is the number of records touched.
func (r ImportResult) Total() int {
	return r.Inserted + r.Updated
}

// Import reads contact birthdays and anniversaries and upserts them by source UID.
func (t *Tracker) Import(ctx context.Context, cfg engine.ImportConfig) (ImportResult, error) {
	days, err := t.importer.Run(ctx, cfg)
	if err != nil {
		return ImportResult{}, err
	}
	ins, upd, err := t.repo.UpsertImported(ctx, days)
	if err != nil {
		return ImportResult{}, err
	}
	t.republish(ctx)
	return ImportResult{Inserted: ins, Updated: upd}, nil
}

// Calendar renders the whole collection as iCalendar data.
func (t *Tracker) Calendar(ctx context.Context) ([]byte, error) {
	days, err := t.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return engine.BuildCalendar(days, t.clock.Now())
}

// Publish renders the feed and hands it to the publisher.
func (t *Tracker) Publish(ctx context.Context) error {
	if t.publisher == nil {
		return errors.New(config.ErrNoPublisher)
	}
	data, err := t.Calendar(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", config.MsgPublishFailed, err)
	}
	t.publisher.Publish(data)
	return nil
}

func (t *Tracker) republish(ctx context.Context) {
	if t.publisher == nil {
		return
	}
	if err := t.Publish(ctx); err != nil {
		slog.Warn(config.MsgPublishFailed,
			config.LogKeyComponent, config.CompTracker,
			config.LogKeyError, err)
	}
}
