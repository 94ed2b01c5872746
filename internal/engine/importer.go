package engine

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-countday/internal/config"
)

// ImportConfig contains all parameters required to import special days from vCards.
type ImportConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// Importer converts contact birthdays and anniversaries into special days.
type Importer struct {
	Clock   Clock        // Interface for time mocking.
	Fetcher VCardFetcher // Interface for network abstraction.
}

// Run reads the configured vCard source and returns one special day per BDAY / ANNIVERSARY field.
// Returned records have no ID; SourceUID is a deterministic hash so re-imports can be upserted.
func (im *Importer) Run(ctx context.Context, cfg ImportConfig) ([]SpecialDay, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)

	reader, err := im.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	days, err := im.decode(ctx, reader)
	if err == nil {
		log.Info(config.MsgImportDone,
			config.LogKeyImported, len(days),
			config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return days, err
}

// acquireStream opens the appropriate data source based on configuration.
func (im *Importer) acquireStream(ctx context.Context, cfg ImportConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// decode walks the vCard stream, skipping malformed cards instead of aborting.
func (im *Importer) decode(ctx context.Context, r io.Reader) ([]SpecialDay, error) {
	now := im.Clock.Now()
	decoder := vcard.NewDecoder(r)
	var days []SpecialDay
	processed := 0

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}
		processed++

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		fields := []struct {
			key string
			typ DayType
		}{
			{config.VCardBDAY, TypeBirthday},
			{config.VCardAnniversary, TypeAnniversary},
		}
		for _, f := range fields {
			field := card.Get(f.key)
			if field == nil || field.Value == "" {
				continue
			}
			date, yearKnown, err := parseVCardDate(field.Value)
			if err != nil {
				slog.Debug(config.MsgSkippedDate,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyValue, field.Value)
				continue
			}
			days = append(days, newImportedDay(name, f.typ, date, yearKnown, now))
		}
	}

	slog.Debug(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyTotal, processed,
		config.LogKeyImported, len(days))

	return days, nil
}

// newImportedDay builds a yearly special day from a contact date.
// Without a birth year the date is anchored on the next occurrence so it reads as a countdown.
func newImportedDay(name string, typ DayType, date time.Time, yearKnown bool, now time.Time) SpecialDay {
	loc := now.Location()
	local := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

	input := fmt.Sprintf(config.FormatHashInput, name, typ, date.Format(config.DateFormatFullDash))
	hash := sha256.Sum256([]byte(config.UIDSalt + input))

	day := SpecialDay{
		Title:     name,
		Date:      local,
		Type:      typ,
		Recurs:    true,
		SourceUID: fmt.Sprintf("%x", hash[:config.UIDHashLength]),
	}
	if !yearKnown {
		day.Date = NextOccurrence(day, now)
	}
	return day
}

// parseVCardDate handles the vCard date formats, with or without a year.
func parseVCardDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown); the leap year keeps --02-29 valid.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
