// Package handlers serves the dashboard pages. Every POST mutates the
// caller's workspace and answers with 303 See Other back to a page, so a
// reload never resubmits a form.
package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"linkdash/internal/client"
	"linkdash/internal/config"
	"linkdash/internal/domain/models"
	"linkdash/internal/notify"
	"linkdash/internal/poller"
	"linkdash/internal/qr"
	"linkdash/internal/submission"
	"linkdash/internal/web"
	"linkdash/internal/workspace"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MsgStatsFailed is raised when the detail view cannot be loaded.
const MsgStatsFailed = "Failed to load URL statistics"

// Controller holds the dependencies of the page handlers.
type Controller struct {
	conf       *config.Config
	api        client.API
	workspaces *workspace.Registry
	renderer   *web.Renderer
	sugar      *zap.SugaredLogger
}

// NewController creates a Controller.
func NewController(conf *config.Config, api client.API, workspaces *workspace.Registry, renderer *web.Renderer, sugar *zap.SugaredLogger) *Controller {
	return &Controller{
		conf:       conf,
		api:        api,
		workspaces: workspaces,
		renderer:   renderer,
		sugar:      sugar,
	}
}

// Index redirects to the form page.
func (con *Controller) Index() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		http.Redirect(res, req, "/shorten", http.StatusSeeOther)
	}
}

// PingHandler reports that the dashboard is up.
func (con *Controller) PingHandler() http.HandlerFunc {
	return func(res http.ResponseWriter, _ *http.Request) {
		res.WriteHeader(http.StatusOK)
	}
}

// ShortenPage renders the form, the results panel and pending notifications.
func (con *Controller) ShortenPage() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())

		con.render(res, web.PageShorten, web.ShortenPage{
			Page: web.Page{Title: "Shorten URLs", Nav: web.PageShorten, Notes: ws.Notes.Drain()},
			Form: ws.Form.Snapshot(),
		})
	}
}

// ShortenURLs applies the posted fields and submits the form.
func (con *Controller) ShortenURLs() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())
		con.applyForm(req, ws.Form)

		if err := ws.Form.Submit(req.Context()); err != nil && !errors.Is(err, submission.ErrInvalid) {
			con.sugar.Warnf("(ShortenURLs) %v", err)
		}
		seeOther(res, req, "/shorten")
	}
}

// AddEntry applies the posted fields and appends a blank entry.
func (con *Controller) AddEntry() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())
		con.applyForm(req, ws.Form)

		_, _ = ws.Form.AddEntry()
		seeOther(res, req, "/shorten")
	}
}

// RemoveEntry applies the posted fields and removes entry {id}.
func (con *Controller) RemoveEntry() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())
		con.applyForm(req, ws.Form)

		_ = ws.Form.RemoveEntry(chi.URLParam(req, "id"))
		seeOther(res, req, "/shorten")
	}
}

// ToggleBulkMode applies the posted fields and flips bulk mode.
func (con *Controller) ToggleBulkMode() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())
		con.applyForm(req, ws.Form)

		ws.Form.ToggleBulkMode()
		seeOther(res, req, "/shorten")
	}
}

// ClearResults hides the results panel.
func (con *Controller) ClearResults() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		fromContext(req.Context()).Form.ClearResults()
		seeOther(res, req, "/shorten")
	}
}

// StatsPage renders the URL list. The list is loaded on the first visit;
// later visits show the current state and, while polling, reload
// themselves every poll interval.
func (con *Controller) StatsPage() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())

		if !ws.URLs.Snapshot().Loaded {
			_ = ws.Poller.Refresh(req.Context())
		}

		polling := ws.Poller.State() == poller.StatePolling
		page := web.Page{Title: "Statistics", Nav: web.PageStats, Notes: ws.Notes.Drain()}
		if polling {
			page.MetaRefresh = refreshSeconds(ws.Poller)
		}

		con.render(res, web.PageStats, web.StatsPage{
			Page:          page,
			URLs:          ws.URLs.Snapshot(),
			Polling:       polling,
			LastRefreshed: ws.Poller.LastRefreshed(),
		})
	}
}

func refreshSeconds(p *poller.Controller) int {
	return int(math.Max(1, math.Ceil(p.Interval().Seconds())))
}

// RefreshStats reloads the list with the loading indicator.
func (con *Controller) RefreshStats() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())

		_ = ws.Poller.Refresh(req.Context())
		seeOther(res, req, "/stats")
	}
}

// SetAutoRefresh turns polling on or off. Without an "enabled" field the
// state is toggled.
func (con *Controller) SetAutoRefresh() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())

		on, err := strconv.ParseBool(req.PostFormValue("enabled"))
		if err != nil {
			ws.Poller.Toggle()
		} else {
			ws.Poller.SetEnabled(on)
		}
		seeOther(res, req, "/stats")
	}
}

// ToggleExpanded shows or hides the click history of {shortcode}.
func (con *Controller) ToggleExpanded() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		fromContext(req.Context()).URLs.ToggleExpanded(chi.URLParam(req, "shortcode"))
		seeOther(res, req, "/stats")
	}
}

// DeleteURL deletes {shortcode} and reloads the list.
func (con *Controller) DeleteURL() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())

		_ = ws.URLs.Remove(req.Context(), chi.URLParam(req, "shortcode"))
		seeOther(res, req, "/stats")
	}
}

// URLDetail renders the detail view of {shortcode} with fresh statistics.
// When the API cannot be reached the copy from the current list is shown.
func (con *Controller) URLDetail() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())
		shortcode := chi.URLParam(req, "shortcode")

		stats, err := con.lookup(req.Context(), ws, shortcode)
		if err != nil {
			msg := MsgStatsFailed
			if errors.Is(err, client.ErrNotFound) {
				msg = client.Detail(err, MsgStatsFailed)
			}
			ws.Notes.Notify(notify.Error(msg))
			seeOther(res, req, "/stats")
			return
		}

		con.render(res, web.PageDetail, web.DetailPage{
			Page:   web.Page{Title: shortcode, Nav: web.PageStats, Notes: ws.Notes.Drain()},
			Stats:  stats,
			Clicks: web.Clicks(stats.ClickHistory),
			QRCode: "/stats/" + shortcode + "/qr.png",
		})
	}
}

// lookup fetches the statistics of shortcode, falling back to the list
// entry on anything but a 404.
func (con *Controller) lookup(ctx context.Context, ws *workspace.Workspace, shortcode string) (models.URLStats, error) {
	stats, err := con.api.FetchStats(ctx, shortcode)
	if err == nil {
		return stats, nil
	}
	con.sugar.Errorf("(lookup) %s: %v", shortcode, err)

	if errors.Is(err, client.ErrNotFound) {
		return models.URLStats{}, err
	}
	if cached, findErr := ws.URLs.Find(shortcode); findErr == nil {
		ws.Notes.Notify(notify.Warning("Showing cached statistics"))
		return cached, nil
	}
	return models.URLStats{}, err
}

// QRCode answers with a PNG QR code of the short URL of {shortcode}.
// The optional "size" query parameter sets the edge length in pixels.
func (con *Controller) QRCode() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		ws := fromContext(req.Context())
		shortcode := chi.URLParam(req, "shortcode")

		target, err := ws.URLs.Find(shortcode)
		if err != nil {
			if target, err = con.api.FetchStats(req.Context(), shortcode); err != nil {
				status := http.StatusBadGateway
				if errors.Is(err, client.ErrNotFound) {
					status = http.StatusNotFound
				}
				http.Error(res, http.StatusText(status), status)
				return
			}
		}

		size, _ := strconv.Atoi(req.URL.Query().Get("size"))
		png, err := qr.PNG(target.ShortURL, size)
		if err != nil {
			con.sugar.Errorf("(QRCode) %s: %v", shortcode, err)
			http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		res.Header().Set("Content-Type", "image/png")
		res.Header().Set("Cache-Control", "private, max-age=300")
		if _, err := res.Write(png); err != nil {
			con.sugar.Errorf("(QRCode) write: %v", err)
		}
	}
}
