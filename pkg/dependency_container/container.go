package dependency_container

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asca-arts/gatekeeper/pkg/app/admin"
	"github.com/asca-arts/gatekeeper/pkg/config"
	"github.com/asca-arts/gatekeeper/pkg/domain/ratelimit"
	handlers "github.com/asca-arts/gatekeeper/pkg/handlers/http"
	"github.com/asca-arts/gatekeeper/pkg/infra/auditlog"
	"github.com/asca-arts/gatekeeper/pkg/infra/auditlog/sinks"
	"github.com/asca-arts/gatekeeper/pkg/infra/auth/jwt"
	"github.com/asca-arts/gatekeeper/pkg/infra/cache"
	"github.com/asca-arts/gatekeeper/pkg/infra/httpx"
	"github.com/asca-arts/gatekeeper/pkg/infra/ratelimiter"
	"github.com/asca-arts/gatekeeper/pkg/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Container struct {
	AuditLog            *auditlog.Log
	Dispatcher          *auditlog.Dispatcher
	APILimiter          *ratelimiter.Limiter
	AdminLimiter        *ratelimiter.Limiter
	AuthLimiter         *ratelimiter.Limiter
	Sweeper             *ratelimiter.Sweeper
	JWTManager          jwt.Manager
	Authenticator       admin.Authenticator
	MiddlewareTransport *middleware.Transport
	HandlerTransport    *handlers.HandlerTransport

	closers []func() error
}

type ContainerDI struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	// Redis is dialed from Cfg.Redis when nil and a component needs it.
	Redis redis.Cmdable
	// WebhookClient overrides the fasthttp client used for alerts.
	WebhookClient httpx.Client
	// KafkaProducer overrides the confluent producer built from Cfg.Audit.Kafka.
	KafkaProducer sinks.Producer
}

func NewContainer(di ContainerDI) (*Container, error) {
	if di.Cfg == nil {
		return nil, errors.New("config is required")
	}
	if di.Logger == nil {
		di.Logger = logrus.StandardLogger()
	}
	c := &Container{}

	redisClient, err := c.redisClient(di)
	if err != nil {
		return nil, err
	}

	// audit log
	dispatcher := auditlog.NewDispatcher(auditlog.DispatcherConfig{
		Workers:     di.Cfg.Audit.Workers,
		QueueSize:   di.Cfg.Audit.QueueSize,
		SinkTimeout: di.Cfg.Audit.SinkTimeout,
	}, auditlog.DefaultRoutingTable(), di.Logger)
	c.Dispatcher = dispatcher
	if err := c.registerSinks(di, redisClient); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.AuditLog = auditlog.NewLog(
		auditlog.WithMaxEvents(di.Cfg.Audit.MaxEvents),
		auditlog.WithDispatcher(dispatcher),
		auditlog.WithLogger(di.Logger),
	)

	// rate limiters
	limiters := make(map[string]*ratelimiter.Limiter, 3)
	for _, name := range []string{config.PolicyAPI, config.PolicyAdmin, config.PolicyAuth} {
		limiter, err := newLimiter(name, di, redisClient)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		limiters[name] = limiter
	}
	c.APILimiter = limiters[config.PolicyAPI]
	c.AdminLimiter = limiters[config.PolicyAdmin]
	c.AuthLimiter = limiters[config.PolicyAuth]
	c.Sweeper = ratelimiter.NewSweeper(
		di.Cfg.RateLimit.CleanupInterval,
		di.Logger,
		c.APILimiter, c.AdminLimiter, c.AuthLimiter,
	)

	// admin auth
	c.JWTManager = jwt.NewJwtManager(&di.Cfg.Admin)
	c.Authenticator = admin.NewAuthenticator(di.Cfg.Admin.Users)

	c.MiddlewareTransport = &middleware.Transport{
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
		RequestIDMiddleware:    middleware.NewRequestIDMiddleware(uuid.New),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(di.Logger),
		BotGuardMiddleware:     middleware.NewBotGuardMiddleware(di.Logger, c.AuditLog),
		SecurityMiddleware:     middleware.NewSecurityMiddleware(middleware.DefaultSecurityHeadersConfig()),
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(di.Logger, c.JWTManager, c.AuditLog),
		APIRateLimit:           middleware.NewRateLimitMiddleware(di.Logger, c.APILimiter, c.AuditLog),
		AdminRateLimit:         middleware.NewRateLimitMiddleware(di.Logger, c.AdminLimiter, c.AuditLog),
		AuthRateLimit:          middleware.NewRateLimitMiddleware(di.Logger, c.AuthLimiter, c.AuditLog),
	}

	c.HandlerTransport = &handlers.HandlerTransport{
		IssueTokenHandler: handlers.NewIssueTokenHandler(
			di.Logger,
			c.Authenticator,
			c.JWTManager,
			c.AuditLog,
			int(di.Cfg.Admin.TokenTTL.Seconds()),
		),
		ListSecurityEventsHandler: handlers.NewListSecurityEventsHandler(di.Logger, c.AuditLog, c.AuditLog),
		GetSecurityStatsHandler:   handlers.NewGetSecurityStatsHandler(di.Logger, c.AuditLog, c.AuditLog),
		GetRateLimitStatusHandler: handlers.NewGetRateLimitStatusHandler(
			di.Logger,
			c.AuditLog,
			c.APILimiter, c.AdminLimiter, c.AuthLimiter,
		),
		GetVersionHandler: handlers.NewGetVersionHandler(di.Logger),
	}

	return c, nil
}

// Close stops the sweeper, drains pending audit deliveries and releases
// external clients, in that order.
func (c *Container) Close() error {
	if c.Sweeper != nil {
		c.Sweeper.Stop()
	}
	if c.Dispatcher != nil {
		c.Dispatcher.Close()
	}
	var errs []error
	for _, closer := range c.closers {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) redisClient(di ContainerDI) (redis.Cmdable, error) {
	needsRedis := di.Cfg.RateLimit.Store == config.StoreRedis || di.Cfg.Audit.RedisChannel != ""
	if !needsRedis {
		return nil, nil
	}
	if di.Redis != nil {
		return di.Redis, nil
	}
	client, err := cache.NewRedisClient(di.Cfg.Redis, di.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	c.closers = append(c.closers, client.Close)
	return client, nil
}

func (c *Container) registerSinks(di ContainerDI, redisClient redis.Cmdable) error {
	levels := map[auditlog.Policy]logrus.Level{
		auditlog.PolicyLogDebug: logrus.DebugLevel,
		auditlog.PolicyLogInfo:  logrus.InfoLevel,
		auditlog.PolicyLogWarn:  logrus.WarnLevel,
		auditlog.PolicyLogError: logrus.ErrorLevel,
	}
	for policy, level := range levels {
		c.Dispatcher.Register(policy, sinks.NewLogSink(di.Logger, level))
	}

	if di.Cfg.Audit.Webhook.URL != "" {
		webhook, err := sinks.NewWebhookSink(sinks.WebhookConfig{
			URL:         di.Cfg.Audit.Webhook.URL,
			Timeout:     di.Cfg.Audit.Webhook.Timeout,
			MaxFailures: di.Cfg.Audit.Webhook.MaxFailures,
		}, di.WebhookClient)
		if err != nil {
			return fmt.Errorf("failed to create webhook sink: %w", err)
		}
		c.Dispatcher.Register(auditlog.PolicyAlert, webhook)
	}

	if len(di.Cfg.Audit.Kafka) > 0 {
		var (
			kafkaSink *sinks.KafkaSink
			err       error
		)
		if di.KafkaProducer != nil {
			conf, decodeErr := sinks.DecodeKafkaConfig(di.Cfg.Audit.Kafka)
			if decodeErr != nil {
				return decodeErr
			}
			kafkaSink = sinks.NewKafkaSinkWithProducer(conf, di.KafkaProducer)
		} else {
			kafkaSink, err = sinks.NewKafkaSink(di.Cfg.Audit.Kafka)
			if err != nil {
				return fmt.Errorf("failed to create kafka sink: %w", err)
			}
		}
		c.Dispatcher.Register(auditlog.PolicyExport, kafkaSink)
		c.closers = append(c.closers, func() error {
			kafkaSink.Close()
			return nil
		})
	}

	if di.Cfg.Audit.RedisChannel != "" {
		redisSink, err := sinks.NewRedisSink(redisClient, di.Cfg.Audit.RedisChannel)
		if err != nil {
			return fmt.Errorf("failed to create redis sink: %w", err)
		}
		c.Dispatcher.Register(auditlog.PolicyExport, redisSink)
	}
	return nil
}

// ResolvePolicy turns a configured policy into a limiter config. Explicit
// values override the preset field by field.
func ResolvePolicy(name string, policy config.PolicyConfig) (ratelimit.Config, error) {
	var cfg ratelimit.Config
	if policy.Preset != "" {
		preset, err := ratelimit.GetPreset(strings.ToLower(policy.Preset))
		if err != nil {
			return cfg, fmt.Errorf("rate limit policy %q: %w", name, err)
		}
		cfg = preset
	}
	if policy.MaxRequests > 0 {
		cfg.MaxRequests = policy.MaxRequests
	}
	if policy.Window > 0 {
		cfg.Window = policy.Window
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("rate limit policy %q: %w", name, err)
	}
	return cfg, nil
}

func newLimiter(name string, di ContainerDI, redisClient redis.Cmdable) (*ratelimiter.Limiter, error) {
	cfg, err := ResolvePolicy(name, di.Cfg.RateLimit.Policies[name])
	if err != nil {
		return nil, err
	}
	var store ratelimit.Store
	switch di.Cfg.RateLimit.Store {
	case config.StoreRedis:
		store = ratelimiter.NewRedisStore(redisClient, name)
	default:
		store = ratelimiter.NewMemoryStore(di.Cfg.RateLimit.Shards)
	}
	return ratelimiter.NewLimiter(name, cfg, store, ratelimiter.WithLogger(di.Logger))
}
