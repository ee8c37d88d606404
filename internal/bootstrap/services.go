package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/vmelnyk/contacts-api/config"
	"github.com/vmelnyk/contacts-api/internal/adapters/s3"
	"github.com/vmelnyk/contacts-api/internal/adapters/smtp"
	"github.com/vmelnyk/contacts-api/internal/auth"
	"github.com/vmelnyk/contacts-api/internal/data"
	"github.com/vmelnyk/contacts-api/internal/service"
)

// ServiceContainer holds the application services behind the HTTP layer.
type ServiceContainer struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Contacts *service.ContactService
	Identity *service.IdentityService
}

// ServicesConfig contains dependencies for BuildServices.
type ServicesConfig struct {
	Config *config.AppConfig
	DB     *sql.DB
	Redis  *redis.Client
	Logger *slog.Logger
}

// BuildServices constructs the full service graph from storage
// connections and configuration.
func BuildServices(ctx context.Context, cfg ServicesConfig) (ServiceContainer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tokens := auth.NewTokenService(cfg.Config.JWT)

	userRepo := data.NewUserRepo(cfg.DB)
	contactRepo := data.NewContactRepo(cfg.DB)
	cacheRepo := data.NewRedisCacheRepo(cfg.Redis)

	identityCache := service.NewIdentityCache(service.IdentityCacheOptions{
		Cache:     cacheRepo,
		TTL:       cfg.Config.Cache.IdentityTTL,
		OpTimeout: cfg.Config.Cache.OpTimeout,
		Logger:    logger,
	})

	identity, err := service.NewIdentityService(service.IdentityServiceOptions{
		Tokens: tokens,
		Users:  userRepo,
		Cache:  identityCache,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build identity service: %w", err)
	}

	sender, err := smtp.NewSender(cfg.Config.Mail, tokens)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build email sender: %w", err)
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Users:   userRepo,
		Tokens:  tokens,
		Email:   sender,
		BaseURL: cfg.Config.HTTP.BaseURL,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	avatars, err := s3.NewAvatarStore(ctx, cfg.Config.Avatar)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build avatar store: %w", err)
	}

	users, err := service.NewUserService(service.UserServiceOptions{
		Users:   userRepo,
		Avatars: avatars,
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build user service: %w", err)
	}

	contacts, err := service.NewContactService(service.ContactServiceOptions{
		Repo:   contactRepo,
		Logger: logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build contact service: %w", err)
	}

	return ServiceContainer{
		Auth:     authSvc,
		Users:    users,
		Contacts: contacts,
		Identity: identity,
	}, nil
}
