package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	. "aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/handlers"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/middleware"

	"github.com/ternarybob/arbor"
)

// Routes lists the paths served in serve mode
var Routes = []string{"/health", "/version", "/session", "/boards", "/boards/issues", "/report", "/reports", "/ws"}

// webServer exposes the report engine over HTTP and streams progress on /ws
type webServer struct {
	config      *Config
	server      *http.Server
	logger      arbor.ILogger
	apiHandlers *handlers.APIHandlers
	wsHub       *handlers.WebSocketHub

	mu        sync.RWMutex
	running   bool
	startTime time.Time
}

func NewWebServer(cfg *Config, storage Storage, service ReportService, logger arbor.ILogger) (WebService, error) {
	if service == nil {
		return nil, NewConfigurationError("no_session", "web server requires a configured session")
	}

	mux := http.NewServeMux()

	wsHub := handlers.NewWebSocketHub(logger)
	apiHandlers := handlers.NewAPIHandlers(cfg, storage, service, logger, wsHub)

	ws := &webServer{
		config:      cfg,
		logger:      logger,
		apiHandlers: apiHandlers,
		wsHub:       wsHub,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	logMiddleware := middleware.Logging(logger)
	chain := func(h http.HandlerFunc) http.HandlerFunc {
		return logMiddleware(middleware.CORS(middleware.ReadOnly(h)))
	}

	mux.HandleFunc("/health", chain(apiHandlers.HealthHandler))
	mux.HandleFunc("/version", chain(apiHandlers.VersionHandler))
	mux.HandleFunc("/session", chain(apiHandlers.SessionHandler))
	mux.HandleFunc("/boards", chain(apiHandlers.BoardsHandler))
	mux.HandleFunc("/boards/issues", chain(apiHandlers.BoardIssuesHandler))
	mux.HandleFunc("/report", chain(apiHandlers.ReportHandler))
	mux.HandleFunc("/reports", chain(apiHandlers.ReportsHandler))

	mux.HandleFunc("/ws", middleware.CORS(wsHub.WebSocketHandler))

	return ws, nil
}

func (ws *webServer) Start(ctx context.Context) error {
	ws.mu.Lock()
	ws.running = true
	ws.startTime = time.Now()
	ws.mu.Unlock()

	go func() {
		ws.logger.Info().Int("port", ws.config.Server.Port).Msg("Starting web server")
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ws.logger.Error().Err(err).Msg("Web server error")
			ws.mu.Lock()
			ws.running = false
			ws.mu.Unlock()
		}
	}()
	return nil
}

func (ws *webServer) Stop() error {
	ws.mu.Lock()
	ws.running = false
	ws.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws.logger.Info().Msg("Shutting down web server")
	ws.wsHub.Close()
	return ws.server.Shutdown(ctx)
}

func (ws *webServer) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}
