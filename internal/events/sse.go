package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StreamHandler serves GET /v1/events as a server-sent event stream of
// storage changes made by other views.
type StreamHandler struct {
	bus       *Bus
	logger    *zap.Logger
	heartbeat time.Duration
}

func NewStreamHandler(bus *Bus, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{bus: bus, logger: logger, heartbeat: 30 * time.Second}
}

// ServeHTTP handles GET /v1/events?client_id=...
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.Context().Err() != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	// The server's WriteTimeout would otherwise cut the stream.
	_ = rc.SetWriteDeadline(time.Time{})
	if err := rc.Flush(); err != nil {
		h.logger.Error("failed to flush headers", zap.Error(err))
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sub := h.bus.Subscribe(clientID)
	defer h.bus.Unsubscribe(sub.ID)

	log := h.logger.With(zap.String("client_id", clientID))

	if err := writeEvent(w, rc, "connected", map[string]string{"client_id": clientID}); err != nil {
		log.Warn("failed to send connected event", zap.Error(err))
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case change, ok := <-sub.C:
			if !ok {
				log.Info("stream closed by bus")
				return
			}
			if err := writeEvent(w, rc, "storage", change); err != nil {
				log.Info("client disconnected during send")
				return
			}
		case <-ticker.C:
			if err := writeEvent(w, rc, "heartbeat", map[string]int64{"ts": time.Now().Unix()}); err != nil {
				log.Info("client disconnected during heartbeat")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, rc *http.ResponseController, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	return rc.Flush()
}
