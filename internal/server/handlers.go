package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/aramex/pkg/shipper"
	"github.com/tournevent/aramex/pkg/wire"
	"go.uber.org/zap"
)

type requestIDKey struct{}

type errorBody struct {
	Kind    shipper.ErrorKind      `json:"kind"`
	Code    string                 `json:"code,omitempty"`
	Message string                 `json:"message"`
	Details []shipper.Notification `json:"details,omitempty"`
}

type envelope struct {
	Data  *wire.Node `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleCreatePickup(w http.ResponseWriter, r *http.Request) {
	var req shipper.Pickup
	s.serveJSON(w, r, "CreatePickup", &req, func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.CreatePickup(ctx, &req)
	})
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var req shipper.Shipment
	s.serveJSON(w, r, "CreateShipments", &req, func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.CreateShipment(ctx, &req)
	})
}

func (s *Server) handleCalculateRate(w http.ResponseWriter, r *http.Request) {
	var req shipper.RateRequest
	s.serveJSON(w, r, "CalculateRate", &req, func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.CalculateRate(ctx, &req)
	})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var req shipper.TrackingRequest
	s.serveJSON(w, r, "TrackShipments", &req, func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.Track(ctx, &req)
	})
}

func (s *Server) handleValidateAddress(w http.ResponseWriter, r *http.Request) {
	var req shipper.Address
	s.serveJSON(w, r, "ValidateAddress", &req, func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.ValidateAddress(ctx, &req)
	})
}

// handleCountries lists every country, or one country when ?code= is given.
func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	if code := r.URL.Query().Get("code"); code != "" {
		s.serve(w, r, "FetchCountry", func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
			return c.FetchCountry(ctx, code)
		})
		return
	}
	s.serve(w, r, "FetchCountries", func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.FetchCountries(ctx)
	})
}

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	req := shipper.CitiesRequest{
		CountryCode:    r.PathValue("code"),
		State:          r.URL.Query().Get("state"),
		NameStartsWith: r.URL.Query().Get("startsWith"),
	}
	s.serve(w, r, "FetchCities", func(ctx context.Context, c shipper.Shipper) (wire.Node, error) {
		return c.FetchCities(ctx, &req)
	})
}

func (s *Server) serveJSON(w http.ResponseWriter, r *http.Request, op string, dst any, call func(context.Context, shipper.Shipper) (wire.Node, error)) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		s.metrics.RecordError(op, "decode")
		s.writeJSON(w, http.StatusBadRequest, envelope{Error: &errorBody{
			Kind:    shipper.KindValidation,
			Code:    "body",
			Message: fmt.Sprintf("invalid JSON body: %v", err),
		}})
		return
	}
	s.serve(w, r, op, call)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, op string, call func(context.Context, shipper.Shipper) (wire.Node, error)) {
	ctx := r.Context()
	start := time.Now()

	name := r.Header.Get(CarrierHeader)
	if name == "" {
		name = s.carrier
	}
	carrier, err := s.registry.Get(name)
	if err != nil {
		s.writeJSON(w, http.StatusNotFound, envelope{Error: &errorBody{
			Kind:    shipper.KindConfiguration,
			Code:    "carrier",
			Message: err.Error(),
		}})
		return
	}

	result, err := call(ctx, carrier)
	elapsed := time.Since(start)
	if err != nil {
		status, body := errorResponse(err)
		s.metrics.RecordRequest(op, s.environment, "error", elapsed)
		s.metrics.RecordError(op, string(body.Kind))
		s.logger.Ctx(ctx).Warn("Request failed",
			zap.String("request_id", requestID(ctx)),
			zap.String("operation", op),
			zap.String("carrier", name),
			zap.Int("status", status),
			zap.Error(err),
		)
		s.writeJSON(w, status, envelope{Error: body})
		return
	}

	s.metrics.RecordRequest(op, s.environment, "success", elapsed)
	s.logger.Ctx(ctx).Debug("Request served",
		zap.String("request_id", requestID(ctx)),
		zap.String("operation", op),
		zap.String("carrier", name),
		zap.Duration("elapsed", elapsed),
	)
	s.writeJSON(w, http.StatusOK, envelope{Data: &result})
}

// errorResponse maps an error to its HTTP status and response body.
func errorResponse(err error) (int, *errorBody) {
	var se *shipper.Error
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout, &errorBody{Kind: shipper.KindTransport, Message: err.Error()}
		}
		return http.StatusInternalServerError, &errorBody{Message: err.Error()}
	}

	body := &errorBody{Kind: se.Kind, Code: se.Code, Message: se.Message, Details: se.Details}
	switch se.Kind {
	case shipper.KindValidation:
		return http.StatusBadRequest, body
	case shipper.KindCarrier:
		return http.StatusUnprocessableEntity, body
	case shipper.KindTransport:
		return http.StatusBadGateway, body
	default:
		return http.StatusInternalServerError, body
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}
