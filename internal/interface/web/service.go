package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/lottopool/poold/internal/core/application"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port    uint32
	NoCORS  bool
	Timeout time.Duration
}

type Service struct {
	server *http.Server
	svc    application.Service
}

func NewService(cfg Config, appSvc application.Service) (*Service, error) {
	if cfg.Port == 0 {
		return nil, fmt.Errorf("missing port")
	}

	router := mux.NewRouter()
	NewPoolsHandler(appSvc).Mount(router, "/v1/pools")

	var handler http.Handler = router
	if !cfg.NoCORS {
		handler = handlers.CORS(
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(handler)
	}
	handler = handlers.CompressHandler(handler)
	handler = requestLogger(handler)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		svc: appSvc,
	}, nil
}

func (s *Service) Start() error {
	if err := s.svc.Start(); err != nil {
		return err
	}

	go func() {
		log.WithField("addr", s.server.Addr).Info("http server started")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server exited")
		}
	}()
	return nil
}

func (s *Service) Stop() {
	s.svc.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// nolint:all
	s.server.Shutdown(ctx)
	log.Info("http server stopped")
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start).String(),
		}).Debug("http request")
	})
}
