package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bloodlink-api/internal/application/dispatch"
	"github.com/bloodlink-api/internal/application/registration"
	"github.com/bloodlink-api/internal/application/session"
	"github.com/bloodlink-api/internal/application/verification"
	"github.com/bloodlink-api/internal/config"
	"github.com/bloodlink-api/internal/domain"
	"github.com/bloodlink-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/bloodlink-api/internal/infrastructure/jwt"
	mongoinfra "github.com/bloodlink-api/internal/infrastructure/mongo"
	"github.com/bloodlink-api/internal/infrastructure/queue"
	"github.com/bloodlink-api/internal/infrastructure/smtp"
	"github.com/bloodlink-api/internal/infrastructure/sns"
	"github.com/bloodlink-api/internal/pkg/logger"
	transporthttp "github.com/bloodlink-api/internal/transport/http"
	"github.com/bloodlink-api/internal/transport/http/middleware"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type otpStore interface {
	Issue(ctx context.Context, rec *domain.OtpRecord) error
	Verify(ctx context.Context, address, code string, now time.Time) error
	Get(ctx context.Context, address string) (*domain.OtpRecord, error)
	Consume(ctx context.Context, address string) error
	Discard(ctx context.Context, address, code string) error
}

type accountStore interface {
	ContactTaken(ctx context.Context, c domain.Contact) (bool, error)
	FindByID(ctx context.Context, id string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
}

type donorStore interface {
	accountStore
	Create(ctx context.Context, d *domain.Donor) error
}

type campStore interface {
	accountStore
	Create(ctx context.Context, c *domain.Camp) error
}

type stores struct {
	otps   otpStore
	donors donorStore
	camps  campStore
	close  func(context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("open stores", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	tokens, err := jwtinfra.NewProvider(cfg.Tokens)
	if err != nil {
		log.Fatal("jwt provider", zap.Error(err))
	}

	notifier, closeNotifier, err := newNotifier(ctx, cfg, log)
	if err != nil {
		log.Fatal("otp notifier", zap.Error(err))
	}
	defer closeNotifier()

	deps := &transporthttp.Deps{
		Verification: verification.NewService(verification.ServiceDeps{
			OTPRepo:   st.otps,
			Donors:    st.donors,
			Camps:     st.camps,
			Notifier:  notifier,
			CodeTTL:   cfg.OTPTTL,
			Retention: cfg.OTPRetention,
			Logger:    log.Named("verification"),
		}),
		Registration: registration.NewService(registration.ServiceDeps{
			OTPRepo:   st.otps,
			DonorRepo: st.donors,
			CampRepo:  st.camps,
			Tokens:    tokens,
			Logger:    log.Named("registration"),
		}),
		Sessions: session.NewService(session.ServiceDeps{
			Donors: st.donors,
			Camps:  st.camps,
			Tokens: tokens,
			Logger: log.Named("session"),
		}),
		Limiter: newLimiter(ctx, cfg, log),
		Logger:  log,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := st.close(shutdownCtx); err != nil {
		log.Warn("close store", zap.Error(err))
	}
	log.Info("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, err := mongoinfra.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		otps, err := mongoinfra.NewOTPRepo(ctx, db)
		if err != nil {
			return nil, err
		}
		donors, err := mongoinfra.NewDonorRepo(ctx, db)
		if err != nil {
			return nil, err
		}
		camps, err := mongoinfra.NewCampRepo(ctx, db)
		if err != nil {
			return nil, err
		}
		return &stores{otps: otps, donors: donors, camps: camps, close: client.Disconnect}, nil
	default:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		// Creates missing tables; a no-op against provisioned ones.
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables, log.Named("dynamo"))
		t := cfg.DynamoTables
		return &stores{
			otps:   dynamo.NewOTPRepo(client, t.OTPs),
			donors: dynamo.NewDonorRepo(client, t.Donors, t.ContactClaims),
			camps:  dynamo.NewCampRepo(client, t.Camps, t.ContactClaims),
			close:  func(context.Context) error { return nil },
		}, nil
	}
}

type notifier interface {
	Deliver(ctx context.Context, msg domain.OTPMessage) error
}

// newNotifier delivers codes in the request, or hands them to cmd/worker
// when DISPATCH_MODE=queue.
func newNotifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (notifier, func(), error) {
	if cfg.DispatchMode == "queue" {
		enq := queue.NewEnqueuer(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB})
		log.Info("otp delivery queued", zap.String("redis", cfg.RedisAddr))
		return enq, func() { _ = enq.Close() }, nil
	}
	sms, err := sns.NewSender(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return dispatch.NewDirect(smtp.NewMailer(cfg), sms), func() {}, nil
}

// newLimiter shares the route ceiling through Redis when it is configured.
func newLimiter(ctx context.Context, cfg *config.Config, log *zap.Logger) middleware.Limiter {
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisLimitDB})
		err := rdb.Ping(ctx).Err()
		if err == nil {
			return middleware.NewRedisWindow(rdb, cfg.RouteLimit, cfg.RouteWindow)
		}
		log.Warn("redis unavailable, using in-process rate limit", zap.Error(err))
		_ = rdb.Close()
	}
	return middleware.NewRateLimiter(ctx, cfg.RouteLimit, cfg.RouteWindow)
}
