// Package web renders the dashboard pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"linkdash/internal/collection"
	"linkdash/internal/domain/models"
	"linkdash/internal/notify"
	"linkdash/internal/submission"
	"linkdash/internal/useragent"
)

// Page names.
const (
	PageShorten = "shorten"
	PageStats   = "stats"
	PageDetail  = "detail"
)

const timeLayout = "Jan 2, 2006, 3:04 PM"

//go:embed templates/*.html
var templatesFS embed.FS

// ErrUnknownPage - Render was asked for a page that does not exist.
var ErrUnknownPage = errors.New("unknown page")

// Page is the data every page shares.
type Page struct {
	Title string
	// Nav: name of the highlighted menu entry.
	Nav   string
	Notes []notify.Notification
	// MetaRefresh: reload the page after this many seconds; zero disables.
	MetaRefresh int
}

// ShortenPage - data of the "shorten URLs" page.
type ShortenPage struct {
	Form submission.Snapshot
	Page
}

// StatsPage - data of the statistics page.
type StatsPage struct {
	LastRefreshed time.Time
	URLs          collection.Snapshot
	Page
	Polling bool
}

// DetailPage - data of the per-URL detail view.
type DetailPage struct {
	Clicks []Click
	Stats  models.URLStats
	Page
	QRCode string
}

// Click is a click record with its classified User-Agent.
type Click struct {
	models.ClickRecord
	Agent useragent.Details
}

// Clicks classifies every record of history, keeping the order.
func Clicks(history []models.ClickRecord) []Click {
	out := make([]Click, 0, len(history))
	for _, rec := range history {
		out = append(out, Click{ClickRecord: rec, Agent: useragent.Parse(rec.UserAgent)})
	}
	return out
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"datetime": func(t models.Timestamp) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format(timeLayout)
	},
	"lastRefreshed": func(t time.Time) string {
		if t.IsZero() {
			return "Never"
		}
		return t.Local().Format("15:04:05")
	},
	"agent": func(ua string) string {
		return useragent.Classify(ua).Summary()
	},
	"orDash": func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	},
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return one
		}
		return many
	},
	"inc": func(i int) int { return i + 1 },
	"autohide": func(d time.Duration) int64 {
		return d.Milliseconds()
	},
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, name := range []string{PageShorten, PageStats, PageDetail} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}

	return r, nil
}

// Render writes page to w. The page is executed into a buffer first so a
// template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}

	_, err := buf.WriteTo(w)
	return err
}
