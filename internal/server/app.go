// Package server initializes and runs the AI helper server: configuration,
// logging, the hosted model client, the HTTP API and graceful shutdown.
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/noteflow/internal/logging"
	"github.com/dmitrijs2005/noteflow/internal/server/ai"
	"github.com/dmitrijs2005/noteflow/internal/server/config"
	"github.com/dmitrijs2005/noteflow/internal/server/httpapi"
	"github.com/dmitrijs2005/noteflow/internal/server/metrics"
	"golang.org/x/time/rate"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	metrics *metrics.Metrics
	service *ai.Service
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)
	m := metrics.New()

	// a nil Completer makes every helper answer locally
	var llm ai.Completer
	if c.GroqAPIKey != "" {
		limiter := rate.NewLimiter(rate.Limit(c.RateLimitRPS), max(c.RateLimitBurst, 1))
		llm = ai.NewGroqClient(c.GroqBaseURL, c.GroqAPIKey, c.GroqModel, c.UpstreamTimeout, limiter, m)
	} else {
		logger.Warn(context.Background(), "GROQ_API_KEY is not set, using local fallbacks")
	}

	return &App{
		config:  c,
		logger:  logger,
		metrics: m,
		service: ai.NewService(llm, logger, m),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	router := httpapi.NewRouter(app.service, httpapi.RouterConfig{
		SecretKey:      []byte(app.config.SecretKey),
		RateLimitRPS:   app.config.RateLimitRPS,
		RateLimitBurst: app.config.RateLimitBurst,
	}, app.metrics, app.logger)

	s := httpapi.NewServer(app.config.EndpointAddr, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives, ctx is cancelled or the
// server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	if app.config.SecretKey == "" {
		app.logger.Warn(ctx, "secret key is empty, API authentication disabled")
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}
