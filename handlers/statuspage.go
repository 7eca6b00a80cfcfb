package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/samber/mo"

	"mcmonitor/core/log"
	"mcmonitor/middleware"
	"mcmonitor/models"
	"mcmonitor/usecases/status"
)

var statusPageTemplate = template.Must(template.New("status").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.BotName}} Server Monitor</title>
<style>
body { font-family: Arial, sans-serif; margin: 40px; background: #2f3136; color: white; }
.container { max-width: 600px; margin: 0 auto; text-align: center; }
.status { background: #57f287; color: black; padding: 10px; border-radius: 5px; margin: 20px 0; }
.offline { background: #ed4245; color: white; }
</style>
</head>
<body>
<div class="container">
<h1>🎮 {{.BotName}} Server Monitor</h1>
<div class="status">✅ Bot is online and running</div>
<p>Monitoring: <strong>{{.Address}}</strong></p>
{{- with .Snapshot}}
<div class="status{{if not .Online}} offline{{end}}">{{.Summary}} (checked {{.TakenAt}})</div>
{{- else}}
<p>No status checks yet.</p>
{{- end}}
<p>Version: {{.Version}}</p>
</div>
</body>
</html>
`))

const defaultStatusCacheTTL = 30 * time.Second

type StatusPageConfig struct {
	BotName  string
	Version  string
	CacheTTL time.Duration // /api/status answers from results younger than this
}

type statusPageData struct {
	BotName  string
	Version  string
	Address  string
	Snapshot *snapshotView
}

type snapshotView struct {
	Online  bool
	Summary string
	TakenAt string
}

type playersResponse struct {
	Online int      `json:"online"`
	Max    int      `json:"max"`
	Sample []string `json:"sample"`
}

type errorResponse struct {
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// StatusAPIResponse is the JSON body of GET /api/status
type StatusAPIResponse struct {
	Server    string           `json:"server"`
	Online    bool             `json:"online"`
	LatencyMs int64            `json:"latency_ms,omitempty"`
	Version   string           `json:"version,omitempty"`
	Motd      string           `json:"motd,omitempty"`
	Players   *playersResponse `json:"players,omitempty"`
	Error     *errorResponse   `json:"error,omitempty"`
	CheckedAt time.Time        `json:"checked_at"`
}

type StatusPageHandler struct {
	statusUseCase *status.StatusUseCase
	config        StatusPageConfig
	now           func() time.Time

	mutex  sync.Mutex
	cached mo.Option[models.Snapshot] // last result queried on behalf of the API
}

func NewStatusPageHandler(statusUseCase *status.StatusUseCase, config StatusPageConfig) *StatusPageHandler {
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaultStatusCacheTTL
	}
	return &StatusPageHandler{
		statusUseCase: statusUseCase,
		config:        config,
		now:           time.Now,
	}
}

func (h *StatusPageHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/", h.HandleIndex).Methods("GET")
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.HandleFunc("/api/status", h.HandleStatus).Methods("GET")
}

// NewHTTPHandler builds the status page router wrapped in CORS and panic alerting
func NewHTTPHandler(statusPage *StatusPageHandler, alerts *middleware.ErrorAlertMiddleware) http.Handler {
	router := mux.NewRouter()
	statusPage.SetupEndpoints(router)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return alerts.HTTPMiddleware(c.Handler(router))
}

// HandleIndex renders the landing page from the last recorded snapshot without querying
func (h *StatusPageHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := statusPageData{
		BotName: h.config.BotName,
		Version: h.config.Version,
		Address: h.statusUseCase.Target().Address(),
	}
	if snapshot, ok := h.statusUseCase.Latest().Get(); ok {
		data.Snapshot = &snapshotView{
			Online:  snapshot.Result.IsOnline(),
			Summary: summarize(snapshot.Result),
			TakenAt: snapshot.TakenAt.UTC().Format("2006-01-02 15:04:05 UTC"),
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := statusPageTemplate.Execute(w, data); err != nil {
		log.Error("❌ Failed to render status page", "error", err)
	}
}

func (h *StatusPageHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStatus returns the current server status as JSON
func (h *StatusPageHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := h.currentStatus(r.Context())
	result := snapshot.Result

	response := StatusAPIResponse{
		Server:    h.statusUseCase.Target().Address(),
		Online:    result.IsOnline(),
		CheckedAt: snapshot.TakenAt.UTC(),
	}
	if result.IsOnline() {
		online := result.Online
		response.LatencyMs = online.LatencyMs
		response.Version = online.VersionLabel
		response.Motd = online.Motd
		response.Players = &playersResponse{
			Online: online.PlayersOnline,
			Max:    online.PlayersMax,
			Sample: online.PlayerSample,
		}
	} else {
		response.Error = &errorResponse{
			Reason: string(result.Offline.Reason),
			Detail: result.Offline.Detail,
		}
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// currentStatus returns a result younger than the cache TTL, preferring the bot's
// own snapshot. Otherwise it queries once without recording, so API traffic never
// feeds the change shown to Discord users. Concurrent callers wait for that query.
func (h *StatusPageHandler) currentStatus(ctx context.Context) models.Snapshot {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	now := h.now()
	for _, candidate := range []mo.Option[models.Snapshot]{h.statusUseCase.Latest(), h.cached} {
		if snapshot, ok := candidate.Get(); ok && now.Sub(snapshot.TakenAt) < h.config.CacheTTL {
			return snapshot
		}
	}

	result := h.statusUseCase.Check(ctx)
	snapshot := models.Snapshot{Result: result, TakenAt: h.now()}
	h.cached = mo.Some(snapshot)
	log.Debug("📋 Refreshed status API cache", "online", result.IsOnline(), "ttl", h.config.CacheTTL)
	return snapshot
}

func (h *StatusPageHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	body, err := sonic.Marshal(data)
	if err != nil {
		log.Error("❌ Failed to encode JSON response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Error("❌ Failed to write JSON response", "error", err)
	}
}

func summarize(result models.QueryResult) string {
	if result.IsOnline() {
		return fmt.Sprintf("🟢 Online · %d/%d players", result.Online.PlayersOnline, result.Online.PlayersMax)
	}
	return fmt.Sprintf("🔴 Offline (%s)", result.Offline.Reason)
}
