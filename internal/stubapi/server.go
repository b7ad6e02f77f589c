// Package stubapi serves the travel-planning REST surface over the SQLite
// storage in internal/sqlite. It backs `ttadmin serve` and the client tests.
package stubapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/ttadmin/internal/sqlite"
	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Server routes REST requests to a sqlite.Backend.
type Server struct {
	backend *sqlite.Backend
	logger  *slog.Logger
	engine  *gin.Engine
}

// New builds the gin engine for backend. A nil logger discards.
func New(backend *sqlite.Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{backend: backend, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.logRequests())
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/locations", s.listLocations)
		v1.GET("/locations/codes", s.listLocationCodes)
		v1.GET("/locations/:id", s.getLocation)
		v1.POST("/locations", s.createLocation)
		v1.PUT("/locations/:id", s.updateLocation)
		v1.DELETE("/locations/:id", s.deleteLocation)

		v1.GET("/transportations", s.listTransportations)
		v1.GET("/transportations/:id", s.getTransportation)
		v1.POST("/transportations", s.createTransportation)
		v1.PUT("/transportations/:id", s.updateTransportation)
		v1.DELETE("/transportations/:id", s.deleteTransportation)

		v1.POST("/routes/search", s.searchRoutes)
	}
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.NoRoute(func(c *gin.Context) {
		abort(c, fmt.Errorf("%w: no route for %s %s", types.ErrNotFound, c.Request.Method, c.Request.URL.Path))
	})
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}
		s.logger.Info("request", attrs...)
	}
}

// pageParams is the query string of every list endpoint.
type pageParams struct {
	Page int    `form:"page"`
	Size int    `form:"size"`
	Sort string `form:"sort"`
}

func bindPage(c *gin.Context) (types.PageRequest, bool) {
	var p pageParams
	if err := c.ShouldBindQuery(&p); err != nil {
		abort(c, fmt.Errorf("%w: %v", types.ErrInvalidData, err))
		return types.PageRequest{}, false
	}
	return types.PageRequest{Page: p.Page, Size: p.Size, Sort: p.Sort}, true
}

func bindBody(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		abort(c, fmt.Errorf("%w: malformed body: %v", types.ErrInvalidData, err))
		return false
	}
	return true
}

func (s *Server) listLocations(c *gin.Context) {
	req, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := s.backend.Locations().List(req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) listLocationCodes(c *gin.Context) {
	req, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := s.backend.Locations().Codes(req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getLocation(c *gin.Context) {
	loc, err := s.backend.Locations().Get(c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (s *Server) createLocation(c *gin.Context) {
	var data types.LocationFormData
	if !bindBody(c, &data) {
		return
	}
	loc, err := s.backend.Locations().Create(data)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (s *Server) updateLocation(c *gin.Context) {
	var data types.LocationFormData
	if !bindBody(c, &data) {
		return
	}
	loc, err := s.backend.Locations().Update(c.Param("id"), data)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (s *Server) deleteLocation(c *gin.Context) {
	if err := s.backend.Locations().Delete(c.Param("id")); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func transportationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		abort(c, fmt.Errorf("%w: %q", types.ErrInvalidID, c.Param("id")))
		return 0, false
	}
	return id, true
}

func (s *Server) listTransportations(c *gin.Context) {
	req, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := s.backend.Transportations().List(req)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) getTransportation(c *gin.Context) {
	id, ok := transportationID(c)
	if !ok {
		return
	}
	tr, err := s.backend.Transportations().Get(id)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

func (s *Server) createTransportation(c *gin.Context) {
	var data types.TransportationFormData
	if !bindBody(c, &data) {
		return
	}
	if t, err := types.ParseTransportationType(string(data.Type)); err == nil {
		data.Type = t
	}
	tr, err := s.backend.Transportations().Create(data)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, tr)
}

func (s *Server) updateTransportation(c *gin.Context) {
	id, ok := transportationID(c)
	if !ok {
		return
	}
	var data types.TransportationFormData
	if !bindBody(c, &data) {
		return
	}
	if t, err := types.ParseTransportationType(string(data.Type)); err == nil {
		data.Type = t
	}
	tr, err := s.backend.Transportations().Update(id, data)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, tr)
}

func (s *Server) deleteTransportation(c *gin.Context) {
	id, ok := transportationID(c)
	if !ok {
		return
	}
	if err := s.backend.Transportations().Delete(id); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// searchBody accepts the date as an RFC 3339 instant or a civil date.
type searchBody struct {
	OriginCode      string `json:"originCode"`
	DestinationCode string `json:"destinationCode"`
	Date            string `json:"date"`
}

func parseSearchDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", types.ErrInvalidDate, s)
}

func (s *Server) searchRoutes(c *gin.Context) {
	var body searchBody
	if !bindBody(c, &body) {
		return
	}
	if body.OriginCode == "" || body.DestinationCode == "" {
		abort(c, fmt.Errorf("%w: originCode and destinationCode are required", types.ErrInvalidData))
		return
	}
	if body.OriginCode == body.DestinationCode {
		abort(c, types.ErrSameEndpoints)
		return
	}
	date, err := parseSearchDate(body.Date)
	if err != nil {
		abort(c, err)
		return
	}

	origin, err := s.backend.Locations().GetByCode(body.OriginCode)
	if err != nil {
		abort(c, unknownCode(body.OriginCode, err))
		return
	}
	destination, err := s.backend.Locations().GetByCode(body.DestinationCode)
	if err != nil {
		abort(c, unknownCode(body.DestinationCode, err))
		return
	}

	legs, err := s.backend.Transportations().OperatingOn(date.Weekday())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, FindRoutes(origin.ID, destination.ID, legs))
}

func unknownCode(code string, err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("%w: invalid location code %q", types.ErrInvalidData, code)
	}
	return err
}
