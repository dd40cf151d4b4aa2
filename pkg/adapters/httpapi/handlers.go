package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/hexa/pkg/core"
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type placeRequest struct {
	Items []core.LineItem `json:"items"`
}

type quickRequest struct {
	Total core.Money `json:"total"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidOrder):
		return http.StatusBadRequest, "invalid_order"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, core.ErrPaymentFailed):
		return http.StatusPaymentRequired, "payment_failed"
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusConflict, "read_only"
	case errors.Is(err, core.ErrUnsupported):
		return http.StatusNotImplemented, "unsupported"
	case errors.Is(err, core.ErrNotificationFailed):
		return http.StatusBadGateway, "notification_failed"
	case errors.Is(err, core.ErrStorageFailed):
		return http.StatusInternalServerError, "storage_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Error: code, Detail: err.Error()})
}

func (s *Server) orderID(w http.ResponseWriter, r *http.Request) (core.OrderID, bool) {
	id, err := core.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_id", Detail: err.Error()})
		return 0, false
	}
	return id, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": s.svc.State()})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_body", Detail: err.Error()})
		return
	}

	order, err := s.svc.PlaceOrder(r.Context(), req.Items)
	if err != nil {
		s.metrics.orders.WithLabelValues("place", "error").Inc()
		s.fail(w, r, err)
		return
	}
	s.metrics.orders.WithLabelValues("place", "ok").Inc()
	w.Header().Set("Location", "/orders/"+strconv.FormatUint(uint64(order.ID), 10))
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleQuick(w http.ResponseWriter, r *http.Request) {
	var req quickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_body", Detail: err.Error()})
		return
	}

	order, err := s.svc.ProcessOrder(r.Context(), req.Total)
	if err != nil {
		s.metrics.orders.WithLabelValues("process", "error").Inc()
		s.fail(w, r, err)
		return
	}
	s.metrics.orders.WithLabelValues("process", "ok").Inc()
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.ListOrders(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if orders == nil {
		orders = []core.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.orderID(w, r)
	if !ok {
		return
	}
	order, err := s.svc.GetOrder(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := s.orderID(w, r)
	if !ok {
		return
	}
	if err := s.svc.DeleteOrder(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
