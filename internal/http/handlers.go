package httpapi

import (
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/config"
	httpopenapi "github.com/fairyhunter13/unit-update-service/internal/http/openapi"
	"github.com/fairyhunter13/unit-update-service/internal/service"
)

// maxJSONBody bounds the JSON update body, which only names a unit.
const maxJSONBody = 1 << 20

var (
	readsTotal     = expvar.NewInt("unit_reads_total")
	updatesApplied = expvar.NewInt("unit_updates_applied_total")
	updatesFailed  = expvar.NewInt("unit_updates_failed_total")
)

// App holds the configuration and update service behind the HTTP handlers.
type App struct {
	Cfg     config.Config
	Svc     *service.Service
	closing atomic.Bool
	started time.Time
}

type updateBody struct {
	Unidade string `json:"unidade"`
}

// NewApp returns an App serving svc.
func NewApp(cfg config.Config, svc *service.Service) *App {
	return &App{Cfg: cfg, Svc: svc, started: time.Now()}
}

// StartShutdown makes the service refuse new updates.
func (a *App) StartShutdown() {
	a.closing.Store(true)
}

func (a *App) updateHandler(w http.ResponseWriter, r *http.Request) {
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, msgShuttingDown, "shutting_down", "")
		return
	}
	req, ok := a.decodeUpdate(w, r)
	if !ok {
		updatesFailed.Add(1)
		return
	}
	res, err := a.Svc.Update(r.Context(), req)
	if err != nil {
		updatesFailed.Add(1)
		writeUpdateError(w, err, req.Document.Uploaded())
		return
	}
	updatesApplied.Add(1)
	data := res.Snapshot.Data
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Snapshot.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Unit-Revision", strconv.FormatUint(res.Revision, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decodeUpdate reads the unit text and, for multipart requests, the uploaded
// document. It writes the error response itself when it returns false.
func (a *App) decodeUpdate(w http.ResponseWriter, r *http.Request) (service.Request, bool) {
	var req service.Request
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		r.Body = http.MaxBytesReader(w, r.Body, a.Cfg.MaxUploadBytes)
		if err := r.ParseMultipartForm(a.Cfg.MaxUploadBytes); err != nil {
			writeFormError(w, err)
			return req, false
		}
		req.Text = r.FormValue("unidade")
		file, hdr, err := r.FormFile("documento")
		if errors.Is(err, http.ErrMissingFile) {
			return req, true
		}
		if err != nil {
			writeFormError(w, err)
			return req, false
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeFormError(w, err)
			return req, false
		}
		req.Document = service.Document{Name: hdr.Filename, Data: data}
	case strings.HasPrefix(ct, "application/json"):
		var body updateBody
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&body); err != nil {
			WriteJSONError(w, http.StatusBadRequest, msgInvalidJSON, apperr.KindInvalidInput, err.Error())
			return req, false
		}
		req.Text = body.Unidade
	default:
		WriteJSONError(w, http.StatusUnsupportedMediaType, msgUnsupportedMedia, apperr.KindInvalidInput, "expected application/json or multipart/form-data")
		return req, false
	}
	return req, true
}

func writeFormError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteJSONError(w, http.StatusRequestEntityTooLarge, msgPayloadTooLarge, apperr.KindInvalidInput, err.Error())
		return
	}
	WriteJSONError(w, http.StatusBadRequest, msgInvalidForm, apperr.KindInvalidInput, err.Error())
}

func (a *App) readHandler(w http.ResponseWriter, r *http.Request) {
	readsTotal.Add(1)
	rec, ok := a.Svc.Store().Get(r.URL.Query().Get("unidade"))
	if !ok {
		WriteJSONError(w, http.StatusNotFound, msgUnitNotFound, "", "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rec)
}

func (a *App) unitsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"unidades": a.Svc.Store().Names()})
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	st := a.Svc.Store()
	revisions := make(map[string]uint64, st.Len())
	for _, name := range st.Names() {
		rev, _ := st.Revision(name)
		revisions[name] = rev
	}
	m := map[string]any{
		"reads":           readsTotal.Value(),
		"updates_applied": updatesApplied.Value(),
		"updates_failed":  updatesFailed.Value(),
		"units":           st.Len(),
		"revisions":       revisions,
		"shutting_down":   a.closing.Load(),
		"uptime_sec":      time.Since(a.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API de Atualizações</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
