package api

import (
	"fmt"
	"net/http"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/tubescript/internal/stores/ratelimit"
	"github.com/ethanbaker/tubescript/internal/stores/session"
	"github.com/ethanbaker/tubescript/pkg/gateway"
	"github.com/ethanbaker/tubescript/pkg/llm"
	"github.com/ethanbaker/tubescript/pkg/logger"
	"github.com/ethanbaker/tubescript/pkg/sdk"
	"github.com/ethanbaker/tubescript/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	admin_module "github.com/ethanbaker/tubescript/internal/api/modules/admin"
	auth_module "github.com/ethanbaker/tubescript/internal/api/modules/auth"
	generate_module "github.com/ethanbaker/tubescript/internal/api/modules/generate"
	health_module "github.com/ethanbaker/tubescript/internal/api/modules/health"
)

// Dependencies are the objects owned by the server and shared with the modules
type Dependencies struct {
	Sessions *session.Store
	Limiter  ratelimit.Limiter
	Gateway  *gateway.Gateway
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with every module registered
func NewRouter(cfg *utils.Config, deps Dependencies) *gin.Engine {
	log := logger.OrNop(deps.Logger)
	startedAt := time.Now()

	engine := gin.New()
	engine.Use(requestLogger(log), recovery(log))
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		AllowMethods:     []string{"OPTIONS", "GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	health_module.RegisterRoutes(baseGroup)
	auth_module.RegisterRoutes(baseGroup, deps.Sessions, log)
	generate_module.RegisterRoutes(baseGroup, generate_module.Dependencies{
		Sessions: deps.Sessions,
		Limiter:  deps.Limiter,
		Gateway:  deps.Gateway,
		Logger:   log,
	})

	admin_module.RegisterRoutes(baseGroup, cfg.Get("API_KEY"), log, func() sdk.StatusResponse {
		return sdk.StatusResponse{
			Provider:      deps.Gateway.Provider().Name(),
			Model:         deps.Gateway.Provider().Model(),
			Limiter:       deps.Limiter.Name(),
			Sessions:      deps.Sessions.Count(),
			RateLimit:     cfg.GetIntWithDefault("RATE_LIMIT_MAX", ratelimit.DefaultLimit),
			RateWindow:    cfg.GetDurationWithDefault("RATE_LIMIT_WINDOW", ratelimit.DefaultWindow).String(),
			MaxAttempts:   deps.Gateway.MaxAttempts(),
			UptimeSeconds: int64(time.Since(startedAt).Seconds()),
		}
	})

	return engine
}

// NewLimiter picks the Redis limiter when REDIS_ADDR is set, the in-memory one otherwise
func NewLimiter(cfg *utils.Config, log *zap.Logger) ratelimit.Limiter {
	limit := cfg.GetIntWithDefault("RATE_LIMIT_MAX", ratelimit.DefaultLimit)
	window := cfg.GetDurationWithDefault("RATE_LIMIT_WINDOW", ratelimit.DefaultWindow)

	if addr := cfg.Get("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: cfg.Get("REDIS_PASSWORD"),
			DB:       cfg.GetInt("REDIS_DB"),
		})
		log.Info("[API-MAIN]: using redis rate limiter", zap.String("addr", addr))
		return ratelimit.NewRedisLimiter(client, limit, window, ratelimit.WithLogger(log))
	}

	return ratelimit.NewMemoryLimiter(limit, window, ratelimit.WithLogger(log))
}

// Start wires the backend from configuration and serves until the listener fails
func Start(cfg *utils.Config, log *zap.Logger) error {
	port := cfg.GetWithDefault("API_PORT", "8080")

	provider, err := llm.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create model provider: %w", err)
	}

	limiter := NewLimiter(cfg, log)
	if memory, ok := limiter.(*ratelimit.MemoryLimiter); ok {
		if err := memory.Start(); err != nil {
			return fmt.Errorf("failed to start rate limit janitor: %w", err)
		}
		defer memory.Stop()
	}

	gw := gateway.New(provider,
		gateway.WithMaxAttempts(cfg.GetIntWithDefault("GATEWAY_MAX_ATTEMPTS", gateway.DefaultMaxAttempts)),
		gateway.WithRetryDelay(cfg.GetDurationWithDefault("GATEWAY_RETRY_DELAY", 0)),
		gateway.WithLogger(log),
	)

	engine := NewRouter(cfg, Dependencies{
		Sessions: session.NewStore(),
		Limiter:  limiter,
		Gateway:  gw,
		Logger:   log,
	})

	log.Info("[API-MAIN]: starting server",
		zap.String("port", port),
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()),
		zap.String("limiter", limiter.Name()),
	)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
