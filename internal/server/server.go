// Package server exposes extracted error records over HTTP.
package server

import (
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/report"
	"github.com/five82/wpreport/internal/sources"
)

const maxLimit = 1000

// RecordSource runs an extraction for a request.
type RecordSource interface {
	Records(ctx context.Context, filter sources.Filter, limit int) []errorlog.Record
}

// Options configure the HTTP handler.
type Options struct {
	Source       RecordSource
	DefaultLimit int
	Token        string
	Limiter      RateLimiter
	Logger       zerolog.Logger
	Site         string
	Now          func() time.Time

	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is
	// believed. Empty trusts none, so clients are keyed by peer address.
	TrustedProxies []string
}

type handler struct {
	opts Options
}

// New builds the gin engine serving the API.
func New(opts Options) *gin.Engine {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &handler{opts: opts}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		opts.Logger.Warn().Err(err).Msg("invalid trusted proxies, trusting none")
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(gin.Recovery(), h.logRequests)

	v1 := engine.Group("/api/v1")
	if opts.Limiter != nil {
		v1.Use(h.rateLimit)
	}
	if opts.Token != "" {
		v1.Use(h.authenticate)
	}
	{
		v1.GET("/errors", h.handleErrors)
		v1.GET("/export/csv", h.handleExportCSV)
		v1.GET("/export/pdf", h.handleExportPDF)
	}
	return engine
}

func (h *handler) logRequests(c *gin.Context) {
	start := h.opts.Now()
	c.Next()
	h.opts.Logger.Info().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", c.Writer.Status()).
		Str("client", c.ClientIP()).
		Dur("elapsed", h.opts.Now().Sub(start)).
		Msg("request")
}

func (h *handler) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(h.opts.Token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.Next()
}

func (h *handler) rateLimit(c *gin.Context) {
	if !h.opts.Limiter.Allow(c.ClientIP(), h.opts.Now()) {
		h.opts.Logger.Warn().Str("client", c.ClientIP()).Msg("rate limit exceeded")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
		return
	}
	c.Next()
}

func (h *handler) handleErrors(c *gin.Context) {
	filter, limit, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records := h.opts.Source.Records(c.Request.Context(), filter, limit)
	if records == nil {
		records = []errorlog.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"errors": records, "count": len(records)})
}

func (h *handler) handleExportCSV(c *gin.Context) {
	filter, limit, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records := h.opts.Source.Records(c.Request.Context(), filter, limit)

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, records); err != nil {
		h.opts.Logger.Error().Err(err).Msg("csv export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't build CSV export"})
		return
	}
	h.attach(c, "csv", "text/csv; charset=utf-8", buf.Bytes())
}

func (h *handler) handleExportPDF(c *gin.Context) {
	filter, limit, err := h.parseQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records := h.opts.Source.Records(c.Request.Context(), filter, limit)

	var buf bytes.Buffer
	opts := report.PDFOptions{Site: h.opts.Site, GeneratedAt: h.opts.Now()}
	if filter != sources.FilterAll {
		opts.Filter = filter.Label()
	}
	if err := report.WritePDF(&buf, records, opts); err != nil {
		h.opts.Logger.Error().Err(err).Msg("pdf export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't build PDF export"})
		return
	}
	h.attach(c, "pdf", "application/pdf", buf.Bytes())
}

func (h *handler) attach(c *gin.Context, ext, contentType string, body []byte) {
	name := report.Filename("errors", ext, h.opts.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, body)
}

func (h *handler) parseQuery(c *gin.Context) (sources.Filter, int, error) {
	filter, err := sources.ParseFilter(c.Query("log_type"))
	if err != nil {
		return sources.FilterAll, 0, err
	}
	limit := h.opts.DefaultLimit
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			return filter, 0, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
		}
		limit = n
	}
	return filter, limit, nil
}
