package web

import (
	"bytes"
	"testing"
	"time"

	"linkdash/internal/collection"
	"linkdash/internal/domain/models"
	"linkdash/internal/notify"
	"linkdash/internal/submission"
	"linkdash/internal/useragent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func sample() models.URLStats {
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return models.URLStats{
		ShortenedURL: models.ShortenedURL{
			Shortcode:   "abc123",
			OriginalURL: "https://example.com/very/long",
			ShortURL:    "http://localhost:8000/abc123",
			ClickCount:  1,
			CreatedAt:   models.Timestamp{Time: created},
			ExpiresAt:   models.Timestamp{Time: created.Add(30 * time.Minute)},
		},
		ClickHistory: []models.ClickRecord{{Timestamp: models.Timestamp{Time: created.Add(time.Minute)}, IPAddress: "10.0.0.1", UserAgent: chromeWindows}},
	}
}

func render(t *testing.T, page string, data any) string {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, page, data))
	return buf.String()
}

func TestRenderShorten(t *testing.T) {
	form := submission.Snapshot{
		Entries: []submission.Entry{
			{ID: "one", URL: "https://a.com", ValidityMinutes: 30},
			{ID: "two", ValidityMinutes: 30},
		},
		Limits:      submission.Limits{MaxEntries: 5, MaxValidityMinutes: 43200, DefaultValidityMinutes: 30},
		Results:     []models.ShortenedURL{sample().ShortenedURL},
		ShowResults: true,
	}
	notes := []notify.Notification{notify.Success("URLs shortened successfully!")}

	out := render(t, PageShorten, ShortenPage{Page: Page{Title: "Shorten", Nav: PageShorten, Notes: notes}, Form: form})

	assert.Contains(t, out, `name="url_one"`)
	assert.Contains(t, out, `name="validity_minutes_two"`)
	assert.Contains(t, out, "Add URL (2/5)")
	assert.Contains(t, out, "Shorten 2 URLs")
	assert.Contains(t, out, "/shorten/entries/two/delete")
	assert.Contains(t, out, "URLs shortened successfully!")
	assert.Contains(t, out, `class="note success"`)
	assert.Contains(t, out, "http://localhost:8000/abc123")
	assert.NotContains(t, out, `http-equiv="refresh"`)
}

func TestRenderShortenSingleEntry(t *testing.T) {
	form := submission.Snapshot{
		Entries: []submission.Entry{{ID: "one", ValidityMinutes: 30}},
		Limits:  submission.Limits{MaxEntries: 1, MaxValidityMinutes: 43200},
	}

	out := render(t, PageShorten, ShortenPage{Page: Page{Title: "Shorten"}, Form: form})

	assert.Contains(t, out, "Shorten URL")
	assert.NotContains(t, out, "Add URL")
	assert.NotContains(t, out, "/delete", "the only entry cannot be removed")
	assert.NotContains(t, out, "Clear results")
}

func TestRenderStats(t *testing.T) {
	snap := collection.Snapshot{
		URLs:     []models.URLStats{sample()},
		Expanded: map[string]bool{"abc123": true},
		Loaded:   true,
	}

	out := render(t, PageStats, StatsPage{
		Page:          Page{Title: "Statistics", Nav: PageStats, MetaRefresh: 5},
		URLs:          snap,
		Polling:       true,
		LastRefreshed: time.Now(),
	})

	assert.Contains(t, out, `<meta http-equiv="refresh" content="5">`)
	assert.Contains(t, out, "Hide Click History (1)")
	assert.Contains(t, out, "Chrome on Windows")
	assert.Contains(t, out, "10.0.0.1")
	assert.Contains(t, out, "Auto-refresh: on")
	assert.Contains(t, out, "/stats/abc123/delete")
	assert.NotContains(t, out, "Never")
}

func TestRenderStatsEmpty(t *testing.T) {
	out := render(t, PageStats, StatsPage{Page: Page{Title: "Statistics"}})

	assert.Contains(t, out, "No URLs created yet")
	assert.Contains(t, out, "Last refreshed: Never")
	assert.Contains(t, out, "Auto-refresh: off")
}

func TestRenderDetail(t *testing.T) {
	stats := sample()
	out := render(t, PageDetail, DetailPage{
		Page:   Page{Title: "abc123"},
		Stats:  stats,
		Clicks: Clicks(stats.ClickHistory),
		QRCode: "/stats/abc123/qr.png",
	})

	assert.Contains(t, out, "Statistics for abc123")
	assert.Contains(t, out, "/stats/abc123/qr.png")
	assert.Contains(t, out, "<td>Desktop</td>")
	assert.Contains(t, out, "Chrome 120.0.0.0")
	assert.Contains(t, out, "<td>Windows</td>")
}

func TestClicksKeepOrder(t *testing.T) {
	history := []models.ClickRecord{
		{UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1"},
		{},
	}

	clicks := Clicks(history)
	require.Len(t, clicks, 2)
	assert.Equal(t, useragent.DeviceMobile, clicks[0].Agent.Device)
	assert.Equal(t, useragent.Unknown, clicks[1].Agent.Browser)
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	err = r.Render(&bytes.Buffer{}, "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownPage)
}
