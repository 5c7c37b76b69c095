// Package collection holds the list of shortened URLs shown on the
// statistics page and the per-URL expanded/collapsed flags.
//
// The list is only ever replaced as a whole by Refresh, so overlapping
// refreshes are harmless: the last response to arrive wins.
package collection

import (
	"context"
	"errors"
	"sync"

	"linkdash/internal/client"
	"linkdash/internal/domain/models"
	"linkdash/internal/notify"

	"go.uber.org/zap"
)

// Notification messages.
const (
	MsgLoadFailed   = "Failed to load URLs"
	MsgDeleted      = "URL deleted successfully!"
	MsgDeleteFailed = "Error deleting URL"
)

// ErrUnknownShortcode - Find did not locate the shortcode in the current list.
var ErrUnknownShortcode = errors.New("shortcode not in list")

type api interface {
	ListURLs(ctx context.Context) ([]models.URLStats, error)
	DeleteURL(ctx context.Context, shortcode string) error
}

// View is the URL collection view-model.
type View struct {
	api      api
	notifier notify.Notifier
	sugar    *zap.SugaredLogger
	expanded map[string]bool
	urls     []models.URLStats
	loading  bool
	loaded   bool
	mu       sync.RWMutex
}

// Snapshot is a copy of the view state for rendering.
type Snapshot struct {
	Expanded map[string]bool
	URLs     []models.URLStats
	Loading  bool
	Loaded   bool
}

// IsExpanded reports whether the click history of shortcode is shown.
func (s Snapshot) IsExpanded(shortcode string) bool {
	return s.Expanded[shortcode]
}

// New creates an empty View.
func New(a api, n notify.Notifier, sugar *zap.SugaredLogger) *View {
	return &View{
		api:      a,
		notifier: n,
		sugar:    sugar,
		expanded: make(map[string]bool),
	}
}

// Refresh replaces the list with a fresh copy from the API. The loading
// flag is only touched when showLoading is set. On failure the list is
// kept and an error notification is raised.
func (v *View) Refresh(ctx context.Context, showLoading bool) error {
	if showLoading {
		v.setLoading(true)
		defer v.setLoading(false)
	}

	urls, err := v.api.ListURLs(ctx)
	if err != nil {
		v.sugar.Errorf("Error fetching URLs: %v", err)
		v.notifier.Notify(notify.Error(MsgLoadFailed))
		return err
	}

	v.mu.Lock()
	v.urls = urls
	v.loaded = true
	v.mu.Unlock()

	return nil
}

func (v *View) setLoading(on bool) {
	v.mu.Lock()
	v.loading = on
	v.mu.Unlock()
}

// Remove deletes shortcode on the server and then reloads the list. The
// item stays visible until the server confirms the deletion.
func (v *View) Remove(ctx context.Context, shortcode string) error {
	if err := v.api.DeleteURL(ctx, shortcode); err != nil {
		v.sugar.Errorf("Error deleting URL %s: %v", shortcode, err)
		msg := MsgDeleteFailed
		if errors.Is(err, client.ErrNotFound) {
			msg = client.Detail(err, MsgDeleteFailed)
		}
		v.notifier.Notify(notify.Error(msg))
		return err
	}

	v.notifier.Notify(notify.Success(MsgDeleted))

	v.mu.Lock()
	delete(v.expanded, shortcode)
	v.mu.Unlock()

	return v.Refresh(ctx, true)
}

// ToggleExpanded flips the expanded flag of shortcode and returns the new value.
func (v *View) ToggleExpanded(shortcode string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.expanded[shortcode] = !v.expanded[shortcode]
	return v.expanded[shortcode]
}

// Find returns the entry with the given shortcode from the current list.
func (v *View) Find(shortcode string) (models.URLStats, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	for _, u := range v.urls {
		if u.Shortcode == shortcode {
			return u, nil
		}
	}
	return models.URLStats{}, ErrUnknownShortcode
}

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	urls := make([]models.URLStats, len(v.urls))
	copy(urls, v.urls)

	expanded := make(map[string]bool, len(v.expanded))
	for k, on := range v.expanded {
		if on {
			expanded[k] = true
		}
	}

	return Snapshot{
		URLs:     urls,
		Expanded: expanded,
		Loading:  v.loading,
		Loaded:   v.loaded,
	}
}
