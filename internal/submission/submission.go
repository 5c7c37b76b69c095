// Package submission manages the "shorten URL" form: one to MaxEntries
// pending entries, client-side validation and dispatch of a single or bulk
// create call.
package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"linkdash/internal/client"
	"linkdash/internal/domain/models"
	"linkdash/internal/notify"

	"github.com/9ssi7/nanoid"
	"go.uber.org/zap"
)

// Notification messages.
const (
	MsgAtLeastOne      = "At least one URL is required"
	MsgShortened       = "URLs shortened successfully!"
	MsgShortenFailed   = "Error shortening URLs"
	MsgAlreadyRunning  = "A submission is already in progress"
	shortcodeMinLength = 3
	shortcodeMaxLength = 20
)

var (
	// ErrLimitReached - AddEntry at the entry cap.
	ErrLimitReached = errors.New("entry limit reached")
	// ErrLastEntry - RemoveEntry on the only entry.
	ErrLastEntry = errors.New("at least one entry is required")
	// ErrInvalid - Submit stopped by client-side validation.
	ErrInvalid = errors.New("invalid entries")
	// ErrInProgress - Submit while another submit is running.
	ErrInProgress = errors.New("submission in progress")
)

var shortcodeRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Field names accepted by UpdateEntry.
type Field string

const (
	FieldURL             Field = "url"
	FieldCustomShortcode Field = "custom_shortcode"
	FieldValidityMinutes Field = "validity_minutes"
)

// Entry is a pending "create URL" form row. ID is local only.
type Entry struct {
	ID              string
	URL             string
	CustomShortcode string
	ValidityMinutes int
}

// Limits of the form.
type Limits struct {
	MaxEntries             int
	MaxValidityMinutes     int
	DefaultValidityMinutes int
}

type api interface {
	CreateURL(ctx context.Context, req models.CreateRequest) (models.ShortenedURL, error)
	CreateURLsBulk(ctx context.Context, reqs []models.CreateRequest) ([]models.ShortenedURL, error)
}

// Controller is the multi-form submission controller.
type Controller struct {
	api         api
	notifier    notify.Notifier
	sugar       *zap.SugaredLogger
	newID       func() string
	entries     []Entry
	results     []models.ShortenedURL
	limits      Limits
	bulkMode    bool
	submitting  bool
	showResults bool
	mu          sync.Mutex
}

// Snapshot is a copy of the form state for rendering.
type Snapshot struct {
	Entries     []Entry
	Results     []models.ShortenedURL
	Limits      Limits
	BulkMode    bool
	Submitting  bool
	ShowResults bool
}

// CanAdd reports whether another entry fits.
func (s Snapshot) CanAdd() bool {
	return len(s.Entries) < s.Limits.MaxEntries
}

// Bulk reports whether a submit would use the bulk endpoint.
func (s Snapshot) Bulk() bool {
	return len(s.Entries) > 1 || s.BulkMode
}

func generateEntryID() string {
	id, _ := nanoid.New()
	return id
}

// New creates a controller holding a single blank entry.
func New(a api, n notify.Notifier, limits Limits, sugar *zap.SugaredLogger) *Controller {
	c := &Controller{
		api:      a,
		notifier: n,
		limits:   limits,
		sugar:    sugar,
		newID:    generateEntryID,
	}
	c.entries = []Entry{c.blank()}
	return c
}

func (c *Controller) blank() Entry {
	return Entry{ID: c.newID(), ValidityMinutes: c.limits.DefaultValidityMinutes}
}

// AddEntry appends a blank entry. At the cap it raises a warning and changes nothing.
func (c *Controller) AddEntry() (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.limits.MaxEntries {
		c.notifier.Notify(notify.Warning(fmt.Sprintf("Maximum of %d URLs allowed at once", c.limits.MaxEntries)))
		return Entry{}, ErrLimitReached
	}

	e := c.blank()
	c.entries = append(c.entries, e)
	return e, nil
}

// RemoveEntry removes the entry with id. The last remaining entry cannot be
// removed: a warning is raised and nothing changes. Unknown ids are ignored.
func (c *Controller) RemoveEntry(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) <= 1 {
		c.notifier.Notify(notify.Warning(MsgAtLeastOne))
		return ErrLastEntry
	}

	kept := c.entries[:0:0]
	for _, e := range c.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	return nil
}

// UpdateEntry sets field of the entry with id. Validity text that is not an
// integer is stored as 0 and reported by Validate. Unknown ids and fields
// are ignored.
func (c *Controller) UpdateEntry(id string, field Field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		if c.entries[i].ID != id {
			continue
		}
		switch field {
		case FieldURL:
			c.entries[i].URL = value
		case FieldCustomShortcode:
			c.entries[i].CustomShortcode = value
		case FieldValidityMinutes:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				n = 0
			}
			c.entries[i].ValidityMinutes = n
		}
		return
	}
}

// SetBulkMode sets the bulk mode toggle.
func (c *Controller) SetBulkMode(on bool) {
	c.mu.Lock()
	c.bulkMode = on
	c.mu.Unlock()
}

// ToggleBulkMode flips the bulk mode toggle and returns the new value.
func (c *Controller) ToggleBulkMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bulkMode = !c.bulkMode
	return c.bulkMode
}

// Validate checks every entry and returns all violations, each carrying
// the 1-based entry index.
func (c *Controller) Validate() []string {
	c.mu.Lock()
	entries := append([]Entry(nil), c.entries...)
	c.mu.Unlock()

	return validate(entries, c.limits)
}

func validate(entries []Entry, limits Limits) []string {
	var errs []string

	for i, e := range entries {
		n := i + 1

		if strings.TrimSpace(e.URL) == "" {
			errs = append(errs, fmt.Sprintf("URL #%d is required", n))
		} else if msg := checkURL(e.URL, n); msg != "" {
			errs = append(errs, msg)
		}

		if e.CustomShortcode != "" {
			if l := len(e.CustomShortcode); l < shortcodeMinLength || l > shortcodeMaxLength {
				errs = append(errs, fmt.Sprintf("Custom shortcode #%d must be between 3-20 characters", n))
			}
			if !shortcodeRe.MatchString(e.CustomShortcode) {
				errs = append(errs, fmt.Sprintf("Custom shortcode #%d must be alphanumeric", n))
			}
		}

		switch {
		case e.ValidityMinutes < 1:
			errs = append(errs, fmt.Sprintf("Validity period #%d must be a positive integer", n))
		case limits.MaxValidityMinutes > 0 && e.ValidityMinutes > limits.MaxValidityMinutes:
			errs = append(errs, fmt.Sprintf("Validity period #%d must not exceed %d minutes", n, limits.MaxValidityMinutes))
		}
	}

	return errs
}

func checkURL(raw string, n int) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" {
		return fmt.Sprintf("URL #%d is invalid", n)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("URL #%d must use http or https protocol", n)
	}
	if u.Host == "" {
		return fmt.Sprintf("URL #%d is invalid", n)
	}
	return ""
}

// Submit validates the entries and sends them. A single entry with bulk
// mode off goes to CreateURL, anything else to CreateURLsBulk. On success
// the results are stored and the submitted entries leave the form, which
// falls back to one blank entry; on failure the entries are kept so the
// user can fix and resubmit.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		c.notifier.Notify(notify.Warning(MsgAlreadyRunning))
		return ErrInProgress
	}
	entries := append([]Entry(nil), c.entries...)
	bulk := len(entries) > 1 || c.bulkMode

	if errs := validate(entries, c.limits); len(errs) > 0 {
		c.mu.Unlock()
		c.notifier.Notify(notify.Error(strings.Join(errs, ", ")))
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}
	c.submitting = true
	c.showResults = true
	c.mu.Unlock()

	results, err := c.send(ctx, entries, bulk)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.sugar.Errorf("Error shortening URLs: %v", err)
		c.notifier.Notify(notify.Error(client.Detail(err, MsgShortenFailed)))
		return err
	}

	c.results = results
	c.entries = unsent(c.entries, entries)
	if len(c.entries) == 0 {
		c.entries = []Entry{c.blank()}
	}
	c.notifier.Notify(notify.Success(MsgShortened))
	c.sugar.Infof("shortened %d URLs (bulk %t)", len(results), bulk)
	return nil
}

// unsent returns the entries of current that were not submitted as they
// are now. Rows added or edited while a submit was running survive it.
func unsent(current, submitted []Entry) []Entry {
	if slices.Equal(current, submitted) {
		return nil
	}

	sent := make(map[Entry]bool, len(submitted))
	for _, e := range submitted {
		sent[e] = true
	}
	var out []Entry
	for _, e := range current {
		if !sent[e] {
			out = append(out, e)
		}
	}
	return out
}

func (c *Controller) send(ctx context.Context, entries []Entry, bulk bool) ([]models.ShortenedURL, error) {
	reqs := make([]models.CreateRequest, 0, len(entries))
	for _, e := range entries {
		reqs = append(reqs, models.CreateRequest{
			OriginalURL:     e.URL,
			ValidityMinutes: e.ValidityMinutes,
			CustomShortcode: e.CustomShortcode,
		})
	}

	if !bulk {
		created, err := c.api.CreateURL(ctx, reqs[0])
		if err != nil {
			return nil, err
		}
		return []models.ShortenedURL{created}, nil
	}

	return c.api.CreateURLsBulk(ctx, reqs)
}

// ClearResults empties the result set and hides the results panel.
func (c *Controller) ClearResults() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.results = nil
	c.showResults = false
}

// Snapshot returns a copy of the form state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Entries:     append([]Entry(nil), c.entries...),
		Results:     append([]models.ShortenedURL(nil), c.results...),
		Limits:      c.limits,
		BulkMode:    c.bulkMode,
		Submitting:  c.submitting,
		ShowResults: c.showResults && len(c.results) > 0,
	}
}
