package alert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/logger"
	"github.com/oshokin/guardian-eye/internal/wire"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Evaluate(ctx context.Context, reading domain.Reading) domain.Evaluation
	Status(ctx context.Context) (domain.State, domain.Thresholds)
	Report(ctx context.Context) domain.Report
	Events(ctx context.Context) ([]domain.Event, error)
}

// maxBodySize bounds a reading request body.
const maxBodySize = 64 << 10

// errEmptyBody is returned when a reading request has no body.
var errEmptyBody = errors.New("request body is empty")

// handler serves the HTTP API.
type handler struct {
	// service provides the business logic for alert operations.
	service Service
}

// NewRouter returns the HTTP API wrapped in recovery and request logging.
// Request log entries use the logger carried by ctx.
func NewRouter(ctx context.Context, service Service) http.Handler {
	h := &handler{service: service}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.HandleFunc("/v1/status", h.status).Methods(http.MethodGet)
	r.HandleFunc("/v1/report", h.report).Methods(http.MethodGet)
	r.HandleFunc("/v1/events", h.events).Methods(http.MethodGet)
	r.HandleFunc("/v1/readings", h.evaluate).Methods(http.MethodPost)

	logged := handlers.CustomLoggingHandler(io.Discard, r, func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.DebugKV(ctx, "HTTP request",
			"method", p.Request.Method,
			"path", p.URL.Path,
			"status", p.StatusCode,
			"size", p.Size,
		)
	})

	return handlers.RecoveryHandler(handlers.PrintRecoveryStack(false))(logged)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, &structpb.Struct{Fields: map[string]*structpb.Value{
		"status": structpb.NewStringValue("ok"),
	}})
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	state, thresholds := h.service.Status(r.Context())
	writeMessage(w, http.StatusOK, wire.FromStatus(state, thresholds))
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	report := h.service.Report(r.Context())
	writeMessage(w, http.StatusOK, wire.FromReport(&report))
}

func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.Events(r.Context())
	if err != nil {
		logger.ErrorKV(r.Context(), "List events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "unable to read journal")

		return
	}

	writeMessage(w, http.StatusOK, wire.FromEvents(events))
}

func (h *handler) evaluate(w http.ResponseWriter, r *http.Request) {
	reading, err := decodeReading(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())

		return
	}

	evaluation := h.service.Evaluate(r.Context(), reading)
	writeMessage(w, http.StatusOK, wire.FromEvaluation(&evaluation))
}

// decodeReading parses a protobuf JSON reading from the request body.
func decodeReading(r *http.Request) (domain.Reading, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return domain.Reading{}, fmt.Errorf("read body: %w", err)
	}

	if len(body) == 0 {
		return domain.Reading{}, errEmptyBody
	}

	var message structpb.Struct
	if err = protojson.Unmarshal(body, &message); err != nil {
		return domain.Reading{}, fmt.Errorf("decode body: %w", err)
	}

	return wire.ToReading(&message)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeMessage(w, code, &structpb.Struct{Fields: map[string]*structpb.Value{
		"error": structpb.NewStringValue(message),
	}})
}

func writeMessage(w http.ResponseWriter, code int, message *structpb.Struct) {
	data, err := protojson.Marshal(message)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}
