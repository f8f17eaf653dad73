package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/rl1809/stock-tally/internal/core/domain"
	"github.com/rl1809/stock-tally/internal/core/service"
	"github.com/rl1809/stock-tally/internal/telemetry"
)

const requestIDHeader = "X-Request-ID"

type HTTPHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

// AddProductHTTPRequest carries the two form fields as typed text.
type AddProductHTTPRequest struct {
	Product  string `json:"product"`
	Quantity string `json:"quantity"`
}

type AddProductHTTPResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Inventory domain.Inventory `json:"inventory,omitempty"`
	Display   string           `json:"display,omitempty"`
}

type InventoryHTTPResponse struct {
	Inventory domain.Inventory `json:"inventory"`
	Display   string           `json:"display"`
}

type ErrorHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(inventoryService *service.InventoryService, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{inventoryService: inventoryService, logger: logger}
}

// Router returns the routes with request-id, tracing and access-log middleware.
func (h *HTTPHandler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(h.requestMiddleware)

	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.AddProduct).Methods(http.MethodPost)
	api.HandleFunc("/inventory", h.GetInventory).Methods(http.MethodGet)

	return r
}

func (h *HTTPHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AddProductHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	res, err := h.inventoryService.Submit(r.Context(), domain.Submission{
		Product:  req.Product,
		Quantity: req.Quantity,
	})
	if err != nil {
		if notice := service.Notice(err); notice != "" {
			writeJSON(w, http.StatusBadRequest, AddProductHTTPResponse{
				Success: false,
				Message: notice,
			})
			return
		}

		h.logger.Error("add product failed", zap.Error(err), zap.String("request_id", requestID(r)))
		writeJSON(w, http.StatusInternalServerError, AddProductHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	writeJSON(w, http.StatusOK, AddProductHTTPResponse{
		Success:   true,
		Message:   res.Notice,
		Inventory: res.Inventory,
		Display:   res.Display,
	})
}

func (h *HTTPHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := h.inventoryService.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("get inventory failed", zap.Error(err), zap.String("request_id", requestID(r)))
		writeJSON(w, http.StatusInternalServerError, ErrorHTTPResponse{
			Success: false,
			Message: "internal error",
		})
		return
	}

	writeJSON(w, http.StatusOK, InventoryHTTPResponse{
		Inventory: inv,
		Display:   inv.Render(),
	})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) requestMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer("github.com/rl1809/stock-tally/internal/adapter/handler")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)

		ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		span.SetAttributes(attribute.String("http.request_id", id))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		h.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", id),
			zap.String("trace_id", telemetry.TraceID(ctx)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func requestID(r *http.Request) string {
	return r.Header.Get(requestIDHeader)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
