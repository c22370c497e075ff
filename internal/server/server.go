// Package server exposes the calculators over an HTTP JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/bank-calculators/internal/calculator"
	"github.com/iwvelando/bank-calculators/internal/metrics"
	"github.com/iwvelando/bank-calculators/pkg/constants"
	"github.com/iwvelando/bank-calculators/pkg/output"
	"github.com/iwvelando/bank-calculators/pkg/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Calculator is the set of calculations served by the API.
type Calculator interface {
	CalculateEMI(ctx context.Context, req calculator.LoanRequest) (output.ScheduleDocument, error)
	CalculateDeposit(ctx context.Context, req calculator.DepositRequest) (output.DepositDocument, error)
	CalculateDCB(ctx context.Context, req calculator.DCBRequest) (calculator.DCBResponse, error)
}

type handler struct {
	logger         *zap.Logger
	calc           Calculator
	maxRequestSize int64
	version        string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, calc Calculator, maxRequestSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, calc: calc, maxRequestSize: maxRequestSize, version: trimmedVersion}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusNotFound, "not found", "server.NotFound")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "server.MethodNotAllowed")
	})

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", h.handleVersion)
		r.Post("/emi", h.handleEMI)
		r.Post("/deposit", h.handleDeposit)
		r.Post("/dcb", h.handleDCB)
	})

	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleEMI(w http.ResponseWriter, r *http.Request) {
	var req calculator.LoanRequest
	if !h.decode(w, r, &req, "server.handleEMI") {
		return
	}
	doc, err := h.calc.CalculateEMI(r.Context(), req)
	h.respond(w, doc, err, "server.handleEMI")
}

func (h *handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req calculator.DepositRequest
	if !h.decode(w, r, &req, "server.handleDeposit") {
		return
	}
	doc, err := h.calc.CalculateDeposit(r.Context(), req)
	h.respond(w, doc, err, "server.handleDeposit")
}

func (h *handler) handleDCB(w http.ResponseWriter, r *http.Request) {
	var req calculator.DCBRequest
	if !h.decode(w, r, &req, "server.handleDCB") {
		return
	}
	resp, err := h.calc.CalculateDCB(r.Context(), req)
	h.respond(w, resp, err, "server.handleDCB")
}

// decode reads a size-limited JSON body into dst, writing the error response
// itself when that fails.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
		case errors.Is(err, io.EOF):
			h.respondError(w, http.StatusBadRequest, "request body is required", op)
		default:
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		}
		return false
	}
	if dec.More() {
		h.respondError(w, http.StatusBadRequest, "request body must contain a single JSON object", op)
		return false
	}
	return true
}

func (h *handler) respond(w http.ResponseWriter, payload any, err error, op string) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, validation.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, payload)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Warn("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

// observe logs each request and counts it by route pattern.
func (h *handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		h.logger.Debug("handled request",
			zap.String("op", "server.observe"),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// Run serves handler on cfg.Address until ctx is cancelled and then shuts
// the server down within cfg.ShutdownTimeout. If ready is non-nil it
// receives the bound listener address once the server accepts connections.
func Run(ctx context.Context, cfg *Config, handler http.Handler, logger *zap.Logger, ready chan<- string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving calculator API",
			zap.String("op", "server.Run"),
			zap.String("address", listener.Addr().String()),
		)
		if ready != nil {
			ready <- listener.Addr().String()
		}
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down calculator API", zap.String("op", "server.Run"))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
