package handlers

import (
	"context"
	"net/http"

	"linkdash/internal/submission"
	"linkdash/internal/workspace"
)

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

// Write records the size of the written body.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader records the status code.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

type workspaceKey struct{}

func withWorkspace(ctx context.Context, ws *workspace.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}

// fromContext returns the workspace stored by the Session middleware.
func fromContext(ctx context.Context) *workspace.Workspace {
	ws, _ := ctx.Value(workspaceKey{}).(*workspace.Workspace)
	return ws
}

// Posted field name prefixes; the entry id follows.
const (
	fieldURL       = "url_"
	fieldShortcode = "custom_shortcode_"
	fieldValidity  = "validity_minutes_"
)

// applyForm copies the posted entry fields into the form controller, so
// add/remove/bulk buttons never lose what the user typed.
func (con *Controller) applyForm(req *http.Request, form *submission.Controller) {
	if err := req.ParseForm(); err != nil {
		con.sugar.Warnf("(applyForm) %v", err)
		return
	}

	for _, e := range form.Snapshot().Entries {
		if v, ok := req.PostForm[fieldURL+e.ID]; ok && len(v) > 0 {
			form.UpdateEntry(e.ID, submission.FieldURL, v[0])
		}
		if v, ok := req.PostForm[fieldShortcode+e.ID]; ok && len(v) > 0 {
			form.UpdateEntry(e.ID, submission.FieldCustomShortcode, v[0])
		}
		if v, ok := req.PostForm[fieldValidity+e.ID]; ok && len(v) > 0 {
			form.UpdateEntry(e.ID, submission.FieldValidityMinutes, v[0])
		}
	}
}

func seeOther(res http.ResponseWriter, req *http.Request, path string) {
	http.Redirect(res, req, path, http.StatusSeeOther)
}

// render writes page; a template failure is logged and answered with 500.
func (con *Controller) render(res http.ResponseWriter, page string, data any) {
	res.Header().Set("Content-Type", "text/html; charset=utf-8")
	res.Header().Set("Cache-Control", "no-store")

	if err := con.renderer.Render(res, page, data); err != nil {
		con.sugar.Errorf("(render) %s: %v", page, err)
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
