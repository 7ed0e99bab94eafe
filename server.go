package blogapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Runtime string

const (
	RuntimeLambda Runtime = "lambda"
	RuntimeHTTP   Runtime = "http"
)

const defaultShutdownTimeout = 10 * time.Second

type Server struct {
	engine          *gin.Engine
	runtime         Runtime
	basePath        string
	corsConfig      *cors.Config
	shutdownTimeout time.Duration
	shutdownHooks   []func()
	shutdownOnce    sync.Once
}

// New returns a server with recovery and common-format access logging
// installed. The runtime defaults to plain HTTP.
func New() *Server {
	engine := gin.New()
	engine.Use(gin.LoggerWithFormatter(CommonLogFormatter), gin.Recovery())

	return &Server{
		engine:          engine,
		runtime:         RuntimeHTTP,
		shutdownTimeout: defaultShutdownTimeout,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Use installs middleware on every route registered afterwards.
func (s *Server) Use(middleware ...gin.HandlerFunc) *Server {
	s.engine.Use(middleware...)
	return s
}

// SetBasePath prefixes every group created after the call.
func (s *Server) SetBasePath(basePath string) *Server {
	s.basePath = basePath
	return s
}

func (s *Server) SetRuntime(runtime Runtime) *Server {
	s.runtime = runtime
	return s
}

func (s *Server) SetShutdownTimeout(timeout time.Duration) *Server {
	s.shutdownTimeout = timeout
	return s
}

// OnShutdown registers hook to run once the server stops serving. Hooks run
// in registration order, at most once. In the lambda runtime they run when
// the execution environment receives SIGTERM, since Start never returns
// there.
func (s *Server) OnShutdown(hook func()) *Server {
	s.shutdownHooks = append(s.shutdownHooks, hook)
	return s
}

func (s *Server) runShutdownHooks() {
	s.shutdownOnce.Do(func() {
		for _, hook := range s.shutdownHooks {
			hook()
		}
	})
}

// Start serves until ctx is cancelled, then drains in-flight requests for
// up to the shutdown timeout. In the lambda runtime it hands control to the
// Lambda runtime loop and never returns.
func (s *Server) Start(ctx context.Context, port int) error {
	if s.runtime == RuntimeLambda {
		return s.startLambda()
	}
	return s.startHTTP(ctx, port)
}

func (s *Server) startHTTP(ctx context.Context, port int) error {
	defer s.runShutdownHooks()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Println("server gracefully stopped")
	return nil
}

func (s *Server) startLambda() error {
	ginLambda := ginadapter.New(s.engine)

	handler := func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return ginLambda.ProxyWithContext(ctx, req)
	}

	lambda.StartWithOptions(handler, lambda.WithEnableSIGTERM(s.runShutdownHooks))
	return nil
}

func (s *Server) WithCORS(config *cors.Config) *Server {
	s.corsConfig = config
	s.engine.Use(cors.New(*config))
	return s
}

func (s *Server) DefaultCORS() *Server {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"}
	config.MaxAge = 12 * time.Hour
	return s.WithCORS(&config)
}

func (s *Server) CustomCORS(allowOrigins []string, allowMethods []string, allowHeaders []string, maxAge time.Duration) *Server {
	config := cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: allowMethods,
		AllowHeaders: allowHeaders,
		MaxAge:       maxAge,
	}
	return s.WithCORS(&config)
}
