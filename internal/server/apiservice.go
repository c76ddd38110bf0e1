package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/claimlens/claimlens/internal/cache"
	"github.com/claimlens/claimlens/internal/common"
	"github.com/claimlens/claimlens/internal/forensic"
	"github.com/claimlens/claimlens/internal/report"
	"github.com/claimlens/claimlens/internal/store"
)

const (
	badgeWidth  = 240
	badgeHeight = 48
)

// APIService exposes the forensic engine over HTTP. Persistence and caching
// are collaborators; the engine itself stays pure.
type APIService struct {
	port           int
	maxUploadBytes int64
	engine         *forensic.Engine
	reports        store.ReportStore
	results        cache.ResultCache // nil disables caching
}

// analyzeForm carries the declared flags of one analysis request.
type analyzeForm struct {
	SecureCapture   bool   `form:"secure_capture"`
	ClaimedLocation string `form:"claimed_location" validate:"max=200"`
}

// analyzeResponse wraps a report payload with its persistent identifier.
type analyzeResponse struct {
	ReportID string          `json:"report_id"`
	Result   json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewAPIService(config *ServiceConfig, engine *forensic.Engine, reports store.ReportStore, results cache.ResultCache) *APIService {
	return &APIService{
		port:           config.Port,
		maxUploadBytes: config.MaxUploadBytes,
		engine:         engine,
		reports:        reports,
		results:        results,
	}
}

// Start serves until an interrupt or termination signal arrives, then shuts
// the listener down gracefully.
func (s *APIService) Start() {
	e := s.buildEcho()

	portString := fmt.Sprintf(":%d", s.port)
	log.Printf("starting server on port %d", s.port)

	// Start HTTP server in a goroutine to allow graceful shutdown
	go func() {
		if err := e.Start(portString); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Printf("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

func (s *APIService) buildEcho() *echo.Echo {
	e := echo.New()

	// Configure request logger to skip "/" endpoint (health check/probe)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/"
		},
		LogStatus:    true,
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRoutePath: true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				log.Printf("%s %s (route=%s) - Status: %d - Latency: %v - Error: %v - RemoteIP: %s",
					v.Method, v.URI, v.RoutePath, v.Status, v.Latency, v.Error, v.RemoteIP)
			} else {
				log.Printf("%s %s (route=%s) - Status: %d - Latency: %v - RemoteIP: %s",
					v.Method, v.URI, v.RoutePath, v.Status, v.Latency, v.RemoteIP)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	e.Validator = common.NewEchoValidator()

	s.setRoutes(e)
	return e
}

func (s *APIService) setRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})

	e.POST("/v1/analyses", s.analyzeHandler)
	e.GET("/v1/analyses/:id", s.getReportHandler)
	e.GET("/v1/analyses/:id/badge.png", s.badgeHandler)
}

func (s *APIService) analyzeHandler(c echo.Context) error {
	var form analyzeForm
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request form"})
	}
	if err := c.Validate(&form); err != nil {
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("analyzeHandler: missing image file",
			"status", http.StatusBadRequest, "error", err)
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "missing image file"})
	}
	if file.Size > s.maxUploadBytes {
		slog.Warn("analyzeHandler: upload too large",
			"status", http.StatusRequestEntityTooLarge, "size", file.Size, "limit", s.maxUploadBytes)
		return c.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: "image exceeds upload limit"})
	}

	src, err := file.Open()
	if err != nil {
		slog.Error("analyzeHandler: failed to open uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to open uploaded file"})
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("analyzeHandler: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		slog.Error("analyzeHandler: failed to read uploaded file",
			"status", http.StatusInternalServerError, "error", err, "filename", file.Filename)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to read uploaded file"})
	}

	ctx := c.Request().Context()
	contentHash, err := forensic.HashReader(bytes.NewReader(data))
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}
	// The filename-recovered provenance token changes the result, so it is
	// part of the dedupe key alongside the declared flags.
	custody := forensic.EvaluateChainOfCustody(file.Filename, form.SecureCapture)
	flagsKey := fmt.Sprintf("secure=%t;location=%s;custody=%s;token=%s",
		form.SecureCapture, form.ClaimedLocation, custody.Evidence, custody.Token)
	cacheKey := cache.Key(contentHash, flagsKey, forensic.PolicyVersion)

	if s.results != nil {
		payload, found, cerr := s.results.Get(ctx, cacheKey)
		if cerr != nil {
			slog.Warn("analyzeHandler: cache lookup failed", "error", cerr)
		} else if found {
			return c.JSONBlob(http.StatusOK, payload)
		}
	}

	// A prior report for the same bytes and flags is identical.
	if prior, serr := s.reports.FindReport(contentHash, flagsKey); serr == nil {
		return s.respondAndCache(c, cacheKey, prior.ID, prior.Payload)
	} else if !errors.Is(serr, store.ErrReportNotFound) {
		slog.Warn("analyzeHandler: report lookup failed", "error", serr)
	}

	result, err := s.engine.Analyze(ctx, forensic.AnalysisRequest{
		Data:            data,
		Filename:        file.Filename,
		SecureCapture:   form.SecureCapture,
		ClaimedLocation: form.ClaimedLocation,
	})
	if err != nil {
		// An aborted analysis yields no report and is not a clean result.
		slog.Warn("analyzeHandler: analysis aborted",
			"status", http.StatusUnprocessableEntity, "error", err, "filename", file.Filename)
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Error("analyzeHandler: failed to serialize result", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to serialize result"})
	}

	persisted := &store.Report{
		ContentHash:   result.ContentHash,
		FlagsKey:      flagsKey,
		SchemaVersion: result.SchemaVersion,
		OverallScore:  result.OverallScore,
		RiskLabel:     string(result.RiskLabel),
		GeneratedAt:   result.GeneratedAt,
		Payload:       payload,
	}
	if err := s.reports.SaveReport(persisted); err != nil {
		slog.Error("analyzeHandler: failed to persist report", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to persist report"})
	}

	return s.respondAndCache(c, cacheKey, persisted.ID, payload)
}

func (s *APIService) respondAndCache(c echo.Context, cacheKey, reportID string, payload []byte) error {
	response := analyzeResponse{ReportID: reportID, Result: payload}
	body, err := json.Marshal(response)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to serialize response"})
	}
	if s.results != nil {
		if cerr := s.results.Set(c.Request().Context(), cacheKey, body); cerr != nil {
			slog.Warn("respondAndCache: cache write failed", "error", cerr)
		}
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (s *APIService) getReportHandler(c echo.Context) error {
	id := c.Param("id")
	persisted, err := s.reports.GetReportByID(id)
	if errors.Is(err, store.ErrReportNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "report not found"})
	}
	if err != nil {
		slog.Error("getReportHandler: failed to load report", "error", err, "report_id", id)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load report"})
	}
	return c.JSON(http.StatusOK, analyzeResponse{ReportID: persisted.ID, Result: persisted.Payload})
}

func (s *APIService) badgeHandler(c echo.Context) error {
	id := c.Param("id")
	persisted, err := s.reports.GetReportByID(id)
	if errors.Is(err, store.ErrReportNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "report not found"})
	}
	if err != nil {
		slog.Error("badgeHandler: failed to load report", "error", err, "report_id", id)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load report"})
	}

	badge, err := report.RenderBadgePNG(persisted.OverallScore, forensic.RiskLabel(persisted.RiskLabel), badgeWidth, badgeHeight)
	if err != nil {
		slog.Error("badgeHandler: failed to render badge", "error", err, "report_id", id)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to render badge"})
	}
	return c.Blob(http.StatusOK, "image/png", badge)
}
