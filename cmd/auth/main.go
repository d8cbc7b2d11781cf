package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	myPostgresRepo "github.com/taskhub/auth-service/internal/adapters/db/postgres"
	"github.com/taskhub/auth-service/internal/adapters/email"
	s3store "github.com/taskhub/auth-service/internal/adapters/storage/s3"
	httptransport "github.com/taskhub/auth-service/internal/adapters/transport/http"
	httpmw "github.com/taskhub/auth-service/internal/adapters/transport/http/middleware"
	appjwt "github.com/taskhub/auth-service/internal/app/auth/jwt"
	appsecret "github.com/taskhub/auth-service/internal/app/auth/secret"
	appsvc "github.com/taskhub/auth-service/internal/app/auth/service"
	"github.com/taskhub/auth-service/internal/infra/config"
	lg "github.com/taskhub/auth-service/internal/infra/log"
	"github.com/taskhub/auth-service/internal/infra/migrate"
)

func main() {
	zapLog := lg.Must(os.Getenv("LOG_LEVEL"))
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("failed to load config", zap.Error(err))
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		zapLog.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLog.Fatal("db handle", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := migrate.Up(sqlDB); err != nil {
		zapLog.Fatal("run migrations", zap.Error(err))
	}

	validate := validator.New()
	_ = validate.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		if utf8.RuneCountInString(pwd) < 8 {
			return false
		}
		var hasUpper, hasDigit bool
		for _, r := range pwd {
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return hasUpper && hasDigit
	})

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hasher := appsecret.NewHasher(cfg.PasswordPepper)
	jwtUtil, err := appjwt.NewJWTUtil(cfg)
	if err != nil {
		zapLog.Fatal("failed to init JWT util", zap.Error(err))
	}
	avatars, err := s3store.NewAvatarStore(rootCtx, cfg)
	if err != nil {
		zapLog.Fatal("failed to init avatar store", zap.Error(err))
	}

	userRepo := myPostgresRepo.NewPostgresUserRepo(db)
	mailer := email.NewSender(cfg)
	svc := appsvc.New(userRepo, hasher, hasher, jwtUtil, mailer, avatars, cfg, validate, zapLog)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpmw.RequestLogger(zapLog))
	router.Use(httpmw.NewRateLimitPerIP(50, 100, 10_000, time.Hour))

	corsConfig := cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			"Authorization",
			"X-Requested-With",
		},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	handler := httptransport.NewHandler(svc, jwtUtil, cfg, zapLog)
	handler.RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: router}
	g, ctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", cfg.HTTPAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return srv.Shutdown(ctxShutdown)
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutdown signal received")
	cancel()

	if err := g.Wait(); err != nil {
		zapLog.Error("server terminated", zap.Error(err))
	}
}
