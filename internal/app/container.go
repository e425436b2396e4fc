package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/coursegate/domain"
	"github.com/you/coursegate/internal/config"
	httpx "github.com/you/coursegate/internal/http"
	"github.com/you/coursegate/internal/http/handlers"
	"github.com/you/coursegate/internal/http/middleware"
	"github.com/you/coursegate/internal/infrastructure/audit"
	"github.com/you/coursegate/internal/infrastructure/auth"
	"github.com/you/coursegate/internal/infrastructure/database"
	"github.com/you/coursegate/internal/infrastructure/notifications"
	"github.com/you/coursegate/internal/infrastructure/repositories"
	"github.com/you/coursegate/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	Stores  domain.Stores
	Tx      domain.Transactor
	Revoked domain.RevocationStore

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuditLog        domain.AuditLogger
	Verifier        domain.CredentialVerifier
	AuthSvc         domain.AuthService
	AccessSvc       domain.AccessTokenManager
	EnrollmentSvc   domain.EnrollmentService
	PolicySvc       domain.PolicyService
}

// NewContainer opens the database and Redis from cfg and initializes all dependencies
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Container, error) {
	db, err := database.Open(cfg.DSN, log)
	if err != nil {
		return nil, err
	}

	// Redis is skipped without an address; logout then only ends the client session
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		if rdb, err = database.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			closeDB(db)
			return nil, err
		}
	} else {
		log.Warn("redis not configured, credential revocation disabled")
	}

	return Assemble(cfg, log, db, rdb)
}

// Assemble initializes all dependencies on already opened connections. rdb may be nil.
func Assemble(cfg *config.Config, log *zap.Logger, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	container := &Container{Config: cfg, Log: log, DB: db, RedisClient: rdb}

	if err := database.AutoMigrate(db); err != nil {
		container.Close()
		return nil, err
	}

	// Initialize repositories
	container.initRepositories()

	// Initialize services
	if err := container.initServices(); err != nil {
		container.Close()
		return nil, err
	}

	return container, nil
}

func (c *Container) initRepositories() {
	c.Stores = repositories.StoresFor(c.DB)
	c.Tx = repositories.NewTransactor(c.DB)
	if c.RedisClient != nil {
		c.Revoked = repositories.NewRevocationRepository(c.RedisClient)
	}
}

func (c *Container) initServices() error {
	cfg := c.Config

	// Initialize basic services
	c.PasswordSvc = auth.NewPasswordService(0)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)
	c.AuditLog = audit.NewZapAuditLogger(c.Log)

	mailer := notifications.NewMailer(notifications.MailerOptions{
		ResendAPIKey: cfg.ResendAPIKey,
		ResendFrom:   cfg.ResendFrom,
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.Username,
		SMTPPassword: cfg.SMTP.Password,
		SMTPFrom:     cfg.SMTP.From,
	}, c.Log)
	sms := notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log)
	c.NotificationSvc = notifications.NewEnrollmentNotifier(mailer, sms, cfg.BaseURL, cfg.AdminEmail, cfg.AdminPhone)

	authCfg := services.AuthConfig{SessionTTL: cfg.SessionTTL, MinPasswordLength: cfg.MinPasswordLength}
	c.Verifier = services.NewCredentialVerifier(c.TokenSvc, c.Stores.Users, c.Revoked, c.Log)
	c.AuthSvc = services.NewAuthService(c.Stores.Users, c.PasswordSvc, c.TokenSvc, c.Revoked, c.AuditLog, c.Log, authCfg)
	c.AccessSvc = services.NewAccessTokenService(c.Stores, c.Tx, c.PasswordSvc, c.TokenSvc, c.AuditLog, c.Log, authCfg)
	c.EnrollmentSvc = services.NewEnrollmentService(c.Stores.Enrollments, c.Tx, c.AccessSvc, c.NotificationSvc, c.AuditLog, c.Log,
		services.EnrollmentConfig{
			DefaultExpiryDays:  cfg.DefaultExpiryDays,
			EligibilityTimeout: cfg.EligibilityTimeout,
		})

	// Policies are stored in casbin_rule and seeded idempotently
	enforcer, err := auth.NewEnforcer(c.DB, cfg.CasbinModelPath)
	if err != nil {
		return err
	}
	c.PolicySvc = services.NewPolicyService(enforcer)
	if err := c.PolicySvc.EnsurePolicies(services.DefaultPolicies()); err != nil {
		return err
	}

	return nil
}

// Router wires the HTTP surface onto the container's services
func (c *Container) Router() *gin.Engine {
	h := httpx.Handlers{
		Auth:        handlers.NewAuthHandlers(c.AuthSvc),
		Enrollments: handlers.NewEnrollmentHandlers(c.EnrollmentSvc),
		Access:      handlers.NewAccessHandlers(c.AccessSvc),
		Admin:       handlers.NewAdminHandlers(c.EnrollmentSvc, c.AccessSvc, c.Config.BaseURL),
		Policies:    handlers.NewPolicyHandlers(c.PolicySvc),
	}
	return httpx.BuildRouter(h, middleware.NewAuthMW(c.Verifier), middleware.NewCasbinMW(c.PolicySvc), c.Log)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		return closeDB(c.DB)
	}

	return nil
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
