package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-countday/internal/config"
)

// VCardFetcher retrieves a remote vCard address book.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// ErrVCardTooLarge is returned while reading an address book bigger than the fetcher limit.
var ErrVCardTooLarge = errors.New(config.ErrVCardTooLarge)

// ErrNotVCard is returned when the server answers with an HTML page, typically a login form.
var ErrNotVCard = errors.New(config.ErrNotVCard)

// HTTPFetcher downloads address books for the contact import.
type HTTPFetcher struct {
	Client *http.Client

	// MaxBytes caps the body. Reading past it fails with ErrVCardTooLarge
	// instead of handing a truncated card to the parser.
	MaxBytes int64
}

// NewHTTPFetcher creates an HTTPFetcher with the configured timeout and size limit.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: config.HTTPTimeout},
		MaxBytes: config.MaxHTTPResponseSize,
	}
}

// Fetch downloads the address book at targetURL, sending basic auth when credentials are set.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Credentials and query tokens stay out of the logs.
	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.AcceptVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	log.Debug("Downloading address book")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status", config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("server returned unexpected status: %s", resp.Status)
	}

	if mt, _, err := mime.ParseMediaType(resp.Header.Get(config.HeaderContentType)); err == nil && mt == config.MediaTypeHTML {
		_ = resp.Body.Close()
		log.Warn(config.ErrNotVCard)
		return nil, ErrNotVCard
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	return &cappedBody{body: resp.Body, left: limit}, nil
}

// cappedBody fails once more than left bytes have been read.
type cappedBody struct {
	body io.ReadCloser
	left int64
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, ErrVCardTooLarge
	}
	// Allow one byte past the limit so an exactly-sized body still ends with io.EOF.
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.body.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n + int(c.left), ErrVCardTooLarge
	}
	return n, err
}

func (c *cappedBody) Close() error {
	return c.body.Close()
}
