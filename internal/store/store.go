// Package store persists special days in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/store/migrations"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("special day not found")

const driverName = "sqlite"

// createdAtLayout is fixed width so creation times sort as text.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `id, title, date, day_type, theme_color, counting_forward, recurs, source_uid, created_at`

// Store is the SQLite-backed special day repository.
// It is safe for concurrent use; SQLite serializes writers.
type Store struct {
	db    *sql.DB
	clock engine.Clock
	loc   *time.Location
}

// Open creates or opens the database at path and applies pending migrations.
// Dates are read back as civil dates in loc.
func Open(ctx context.Context, path string, clock engine.Clock, loc *time.Location) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}

	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := NewRunner(db, migrations.FS).Apply(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrStoreMigrate, err)
	}

	if loc == nil {
		loc = time.Local
	}
	if clock == nil {
		clock = engine.RealClock{Loc: loc}
	}
	return &Store{db: db, clock: clock, loc: loc}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// row is the stored shape of a special day, before direction reconciliation.
type row struct {
	day     engine.SpecialDay
	forward bool
}

func (s *Store) scan(sc scanner) (row, error) {
	var (
		r                 row
		date, typ, create string
		sourceUID         sql.NullString
	)
	err := sc.Scan(&r.day.ID, &r.day.Title, &date, &typ, &r.day.ThemeColor,
		&r.forward, &r.day.Recurs, &sourceUID, &create)
	if err != nil {
		return row{}, err
	}

	r.day.Date, err = time.ParseInLocation(config.DateFormatFullDash, date, s.loc)
	if err != nil {
		return row{}, fmt.Errorf("%s: date %q: %w", config.ErrRecordScan, date, err)
	}
	r.day.CreatedAt, err = time.Parse(createdAtLayout, create)
	if err != nil {
		return row{}, fmt.Errorf("%s: created_at %q: %w", config.ErrRecordScan, create, err)
	}
	r.day.Type = engine.DayType(typ)
	r.day.SourceUID = sourceUID.String
	return r, nil
}

// List returns every record ordered by date, then creation time.
// The stored counting direction is recomputed from the date; stale values are
// logged and rewritten.
func (s *Store) List(ctx context.Context) ([]engine.SpecialDay, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM special_days ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	defer func() { _ = rows.Close() }()

	now := s.clock.Now()
	var (
		days  []engine.SpecialDay
		stale []engine.SpecialDay
	)
	for rows.Next() {
		r, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		if r.forward != r.day.IsCountingForward(now) {
			stale = append(stale, r.day)
		}
		days = append(days, r.day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	// rows must be closed before writing on the single connection.
	_ = rows.Close()

	for _, d := range stale {
		s.reconcile(ctx, d, now)
	}
	return days, nil
}

func (s *Store) reconcile(ctx context.Context, d engine.SpecialDay, now time.Time) {
	derived := d.IsCountingForward(now)
	slog.Info(config.MsgDirectionFixed,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, d.ID,
		config.LogKeyStored, !derived,
		config.LogKeyDerived, derived)

	_, err := s.db.ExecContext(ctx, `UPDATE special_days SET counting_forward = ? WHERE id = ?`, derived, d.ID)
	if err != nil {
		slog.Warn(config.ErrStoreWrite,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyID, d.ID,
			config.LogKeyError, err)
	}
}

// Get returns a single record.
func (s *Store) Get(ctx context.Context, id string) (engine.SpecialDay, error) {
	r, err := s.scan(s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM special_days WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return engine.SpecialDay{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return engine.SpecialDay{}, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	return r.day, nil
}

// Add validates and inserts a new record. ID and CreatedAt are assigned here.
func (s *Store) Add(ctx context.Context, d engine.SpecialDay) (engine.SpecialDay, error) {
	if err := d.Validate(); err != nil {
		return engine.SpecialDay{}, err
	}
	d.ID = uuid.New().String()
	d.CreatedAt = s.clock.Now().UTC()

	if err := s.insert(ctx, s.db, d); err != nil {
		return engine.SpecialDay{}, err
	}
	slog.Info(config.MsgDayAdded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, d.ID,
		config.LogKeyTitle, d.Title)
	return d, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ctx context.Context, ex execer, d engine.SpecialDay) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO special_days (id, title, date, day_type, theme_color, counting_forward, recurs, source_uid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, strings.TrimSpace(d.Title), d.Date.Format(config.DateFormatFullDash), string(d.Type), d.ThemeColor,
		d.IsCountingForward(s.clock.Now()), d.Recurs, nullString(d.SourceUID), d.CreatedAt.UTC().Format(createdAtLayout))
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}

// Update replaces the editable fields of an existing record.
func (s *Store) Update(ctx context.Context, d engine.SpecialDay) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.update(ctx, s.db, d); err != nil {
		return err
	}
	slog.Info(config.MsgDayUpdated,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, d.ID)
	return nil
}

func (s *Store) update(ctx context.Context, ex execer, d engine.SpecialDay) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE special_days
		SET title = ?, date = ?, day_type = ?, theme_color = ?, counting_forward = ?, recurs = ?
		WHERE id = ?`,
		strings.TrimSpace(d.Title), d.Date.Format(config.DateFormatFullDash), string(d.Type), d.ThemeColor,
		d.IsCountingForward(s.clock.Now()), d.Recurs, d.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return requireAffected(res, d.ID)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM special_days WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}
	slog.Info(config.MsgDayDeleted,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyID, id)
	return nil
}

// UpsertImported inserts imported records, or updates those whose SourceUID is already stored.
// It runs in a single transaction and returns the number of inserted and updated rows.
func (s *Store) UpsertImported(ctx context.Context, days []engine.SpecialDay) (inserted, updated int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.clock.Now().UTC()
	for _, d := range days {
		if err := d.Validate(); err != nil {
			return 0, 0, err
		}
		if d.SourceUID == "" {
			return 0, 0, fmt.Errorf("%s: imported record %q has no source uid", config.ErrStoreWrite, d.Title)
		}

		var id string
		err := tx.QueryRowContext(ctx, `SELECT id FROM special_days WHERE source_uid = ?`, d.SourceUID).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			d.ID = uuid.New().String()
			d.CreatedAt = now
			if err := s.insert(ctx, tx, d); err != nil {
				return 0, 0, err
			}
			inserted++
		case err != nil:
			return 0, 0, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
		default:
			d.ID = id
			if err := s.update(ctx, tx, d); err != nil {
				return 0, 0, err
			}
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return inserted, updated, nil
}

// Reset deletes every record.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM special_days`); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	return nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
