package main

import (
	"context"
	"fmt"
	"net/http"

	_ "fintrack/docs"
	"fintrack/internal/finance"
	"fintrack/internal/logger"
	"fintrack/internal/marketdata"
	"fintrack/internal/ratelimit"
	"fintrack/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// QuoteSource looks up a full market quote for one ticker.
type QuoteSource interface {
	Quote(ctx context.Context, ticker string) (marketdata.Quote, error)
}

// Limiters are the rate limiting tiers: reads, writes, and the expensive
// operations (recurring run, price sync, quote lookup).
type Limiters struct {
	Read  *ratelimit.Limiter
	Write *ratelimit.Limiter
	API   *ratelimit.Limiter
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	store          store.Store
	summarizer     *finance.Summarizer
	processor      *finance.Processor
	syncer         *finance.PriceSyncer
	quotes         QuoteSource
	limiters       Limiters
	allowedOrigins []string
	log            zerolog.Logger
}

// ServerOptions wires a Server.
type ServerOptions struct {
	Store          store.Store
	Processor      *finance.Processor
	Syncer         *finance.PriceSyncer
	Quotes         QuoteSource
	Limiters       Limiters
	AllowedOrigins []string
	Log            zerolog.Logger
}

func NewServer(opts ServerOptions) *Server {
	registerValidators()
	return &Server{
		store:          opts.Store,
		summarizer:     finance.NewSummarizer(opts.Store),
		processor:      opts.Processor,
		syncer:         opts.Syncer,
		quotes:         opts.Quotes,
		limiters:       opts.Limiters,
		allowedOrigins: opts.AllowedOrigins,
		log:            opts.Log,
	}
}

// Router builds the gin engine with every route.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(recovery(s.log))
	r.Use(requestLogger(s.log))
	r.Use(securityHeaders())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     s.allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "X-CSRF-Token", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: fmt.Sprintf("Method %s not allowed", c.Request.Method)})
	})

	r.GET("/healthz", s.healthz)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	read := rateLimit(s.limiters.Read)
	write := rateLimit(s.limiters.Write)
	heavy := rateLimit(s.limiters.API)

	api := r.Group("/api")

	api.GET("/categories", read, cacheHeaders(cacheCategories), s.getCategories)
	api.POST("/categories", write, noCache(), s.createCategory)

	for _, kind := range finance.Kinds {
		h := &transactionHandler{Server: s, kind: kind}
		g := api.Group(transactionPath(kind))
		g.GET("", read, cacheHeaders(cacheTransactions), h.list)
		g.POST("", write, noCache(), h.create)
		g.GET("/:id", read, cacheHeaders(cacheTransactions), h.get)
		g.PUT("/:id", write, noCache(), h.update)
		g.DELETE("/:id", write, noCache(), h.delete)
	}

	stocks := api.Group("/stocks")
	stocks.GET("", read, cacheHeaders(cacheStocks), s.getStocks)
	stocks.POST("", write, noCache(), s.createStock)
	stocks.GET("/summary", read, cacheHeaders(cacheStocks), s.getStockSummary)
	stocks.POST("/sync", heavy, noCache(), s.syncStocks)
	stocks.GET("/info/:ticker", heavy, cacheHeaders(cacheStocks), s.getStockInfo)
	stocks.GET("/:id", read, cacheHeaders(cacheStocks), s.getStock)
	stocks.PUT("/:id", write, noCache(), s.updateStock)
	stocks.DELETE("/:id", write, noCache(), s.deleteStock)

	summary := api.Group("/summary")
	summary.GET("/month", read, cacheHeaders(cacheSummary), s.getMonthSummary)
	summary.GET("/year", read, cacheHeaders(cacheSummary), s.getYearSummary)
	summary.GET("/categories", read, cacheHeaders(cacheSummary), s.getCategorySummary)

	api.GET("/export/csv", read, noCache(), s.exportCSV)
	api.POST("/recurring/process", heavy, noCache(), s.processRecurring)

	return r
}

// respondError logs the failure and writes the mapped status. Internal
// details never reach the client.
func (s *Server) respondError(c *gin.Context, err error, action string) {
	statusCode, message := handleStoreError(err)
	log := requestLog(c)
	event := log.Debug()
	if statusCode >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("path", c.Request.URL.Path).Msg(action)
	setNoCacheHeaders(c)
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// requestLog returns the logger requestLogger scoped to this request.
func requestLog(c *gin.Context) *zerolog.Logger {
	log := logger.FromContext(c.Request.Context())
	return &log
}

// @Summary Health check
// @Description Reports whether the server can reach its store
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (s *Server) healthz(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		requestLog(c).Error().Err(err).Msg("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
