package monitor

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ridge/overlay/tlog"
	"go.uber.org/zap"
)

// Handler returns the HTTP interface of the monitor:
//
//	GET /stats   engine and link counters as JSON
//	GET /frames  WebSocket stream of frames as JSON text messages
func (m *Monitor) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/stats", m.serveStats).Methods(http.MethodGet)
	router.HandleFunc("/frames", m.serveFrames).Methods(http.MethodGet)
	return router
}

func (m *Monitor) serveStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(m.Stats()); err != nil {
		tlog.Get(r.Context()).Debug("Failed to write stats", zap.Error(err))
	}
}

func (m *Monitor) serveFrames(w http.ResponseWriter, r *http.Request) {
	id, frames := m.subscribe()
	defer m.unsubscribe(id)

	r = r.WithContext(tlog.With(r.Context(), zap.Stringer("subscriber", id)))
	serveStream(w, r, DefaultStreamConfig, frames)
}
