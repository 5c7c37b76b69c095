// Package workspace binds a browser session to its own set of view-models.
//
// A session is identified by a signed and encrypted cookie carrying a
// random uuid. Each session gets a Workspace holding the submission form,
// the URL collection, the poller and the pending notifications. Idle
// workspaces are evicted and their pollers closed.
package workspace

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"linkdash/internal/client"
	"linkdash/internal/collection"
	"linkdash/internal/config"
	"linkdash/internal/notify"
	"linkdash/internal/poller"
	"linkdash/internal/submission"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// CookieName is the name of the session cookie.
const CookieName = "linkdash_session"

// notifyLimit bounds the pending notifications of one workspace.
const notifyLimit = 20

// ErrNoSession - the request carries no valid session cookie.
var ErrNoSession = errors.New("no session")

// Workspace is the per-session state.
type Workspace struct {
	lastSeen time.Time
	Form     *submission.Controller
	URLs     *collection.View
	Poller   *poller.Controller
	Notes    *notify.Queue
	ID       string
}

// Registry creates, finds and evicts workspaces.
type Registry struct {
	api      client.API
	sugar    *zap.SugaredLogger
	cookie   *securecookie.SecureCookie
	items    map[string]*Workspace
	now      func() time.Time
	cfg      config.Config
	ttl      time.Duration
	maxItems int
	mu       sync.Mutex
	closed   bool
	stopOnce sync.Once
	stop     chan struct{}
}

// newSecurecookie builds the codec from the configured keys. Missing keys
// are generated, so sessions do not survive a restart.
func newSecurecookie(cfg *config.Config) *securecookie.SecureCookie {
	hashKey := []byte(cfg.SessionHashKey)
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	blockKey := []byte(cfg.SessionBlockKey)
	if len(blockKey) == 0 {
		blockKey = securecookie.GenerateRandomKey(32)
	}
	return securecookie.New(hashKey, blockKey)
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg *config.Config, api client.API, sugar *zap.SugaredLogger) *Registry {
	return &Registry{
		api:      api,
		sugar:    sugar,
		cookie:   newSecurecookie(cfg),
		items:    make(map[string]*Workspace),
		now:      time.Now,
		cfg:      *cfg,
		ttl:      cfg.SessionTTL.Std(),
		maxItems: cfg.MaxSessions,
		stop:     make(chan struct{}),
	}
}

func (reg *Registry) newWorkspace(id string) *Workspace {
	notes := notify.NewQueue(notifyLimit)
	urls := collection.New(reg.api, notes, reg.sugar)
	limits := submission.Limits{
		MaxEntries:             reg.cfg.MaxFormEntries,
		MaxValidityMinutes:     reg.cfg.MaxValidityMinutes,
		DefaultValidityMinutes: reg.cfg.DefaultValidityMinutes,
	}

	return &Workspace{
		ID:       id,
		Notes:    notes,
		URLs:     urls,
		Form:     submission.New(reg.api, notes, limits, reg.sugar),
		Poller:   poller.New(urls, notes, reg.cfg.PollInterval.Std(), reg.cfg.RequestTimeout(), reg.sugar),
		lastSeen: reg.now(),
	}
}

// sessionID returns the session id carried by the request cookie.
func (reg *Registry) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrNoSession
	}

	var id string
	if err := reg.cookie.Decode(CookieName, cookie.Value, &id); err != nil {
		return "", errors.Join(ErrNoSession, err)
	}
	return id, nil
}

// setSessionID writes the session cookie.
func (reg *Registry) setSessionID(w http.ResponseWriter, id string) error {
	encoded, err := reg.cookie.Encode(CookieName, id)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest returns the workspace of the request's session, creating a
// session and setting its cookie when there is none or it expired.
func (reg *Registry) FromRequest(w http.ResponseWriter, r *http.Request) (*Workspace, error) {
	id, err := reg.sessionID(r)

	reg.mu.Lock()
	if err == nil {
		if ws, ok := reg.items[id]; ok {
			ws.lastSeen = reg.now()
			reg.mu.Unlock()
			return ws, nil
		}
	}
	reg.mu.Unlock()

	id, err = newSessionID()
	if err != nil {
		return nil, err
	}
	if err := reg.setSessionID(w, id); err != nil {
		reg.sugar.Errorf("(FromRequest) set cookie: %v", err)
		return nil, err
	}

	ws := reg.newWorkspace(id)

	reg.mu.Lock()
	if reg.closed {
		reg.mu.Unlock()
		return nil, http.ErrServerClosed
	}
	var evicted *Workspace
	if reg.maxItems > 0 && len(reg.items) >= reg.maxItems {
		evicted = reg.oldestLocked()
		delete(reg.items, evicted.ID)
	}
	reg.items[id] = ws
	reg.mu.Unlock()

	if evicted != nil {
		evicted.Poller.Close()
		reg.sugar.Debugf("workspace %s evicted, registry full", evicted.ID)
	}
	reg.sugar.Debugf("new workspace %s", id)
	return ws, nil
}

// oldestLocked returns the least recently seen workspace. reg.mu must be
// held and reg.items must not be empty.
func (reg *Registry) oldestLocked() *Workspace {
	var oldest *Workspace
	for _, ws := range reg.items {
		if oldest == nil || ws.lastSeen.Before(oldest.lastSeen) {
			oldest = ws
		}
	}
	return oldest
}

func newSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Len returns the number of live workspaces.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.items)
}

// Sweep evicts workspaces idle for longer than the session TTL and closes
// their pollers. It returns how many were evicted.
func (reg *Registry) Sweep() int {
	reg.mu.Lock()
	var evicted []*Workspace
	cutoff := reg.now().Add(-reg.ttl)
	for id, ws := range reg.items {
		if ws.lastSeen.Before(cutoff) {
			evicted = append(evicted, ws)
			delete(reg.items, id)
		}
	}
	reg.mu.Unlock()

	for _, ws := range evicted {
		ws.Poller.Close()
		reg.sugar.Debugf("workspace %s evicted", ws.ID)
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is done or Close is called.
func (reg *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reg.stop:
			return
		case <-ticker.C:
			if n := reg.Sweep(); n > 0 {
				reg.sugar.Infof("evicted %d idle workspaces", n)
			}
		}
	}
}

// Close tears down every workspace. Later requests get no workspace.
func (reg *Registry) Close() {
	reg.stopOnce.Do(func() { close(reg.stop) })

	reg.mu.Lock()
	items := reg.items
	reg.items = make(map[string]*Workspace)
	reg.closed = true
	reg.mu.Unlock()

	for _, ws := range items {
		ws.Poller.Close()
	}
	reg.sugar.Infof("closed %d workspaces", len(items))
}
