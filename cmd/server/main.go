package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"changeready_go/internal/config"
	"changeready_go/internal/handler"
	"changeready_go/internal/middleware"
	"changeready_go/internal/repository"
	"changeready_go/internal/service"
	"changeready_go/pkg/database"
	"changeready_go/pkg/log"
	"changeready_go/pkg/token"

	"github.com/gin-gonic/gin"
)

const day = 24 * time.Hour

func main() {
	configPath := "configs/config.yaml"
	if p := os.Getenv("CHANGEREADY_CONFIG"); p != "" {
		configPath = p
	}
	config.Init(configPath)
	cfg := config.Conf

	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath, log.WithRotation(log.Rotation{
		MaxSize:    cfg.Log.Maxsize,
		MaxBackups: cfg.Log.Maxbackups,
		MaxAge:     cfg.Log.Maxage,
		Compress:   cfg.Log.Compress,
	}))
	defer log.Sync()

	db, err := database.Open(database.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeMinutes) * time.Minute,
		SlowThreshold:   time.Duration(cfg.Database.SlowThresholdMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatal("Failed to open database", err)
	}
	if err := database.RunMigrate(db); err != nil {
		log.Fatal("Failed to run migrations", err)
	}

	// Redis 只承担令牌撤销名单，未启用时跳过撤销检查
	var revocation middleware.TokenRevocation
	if cfg.Database.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := database.NewRedis(ctx, cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
		cancel()
		if err != nil {
			log.Fatal("Failed to connect redis", err)
		}
		defer rdb.Close()
		revocation = middleware.NewRedisRevocation(rdb)
	}

	templateRepo := repository.NewSurveyTemplateRepository(db)
	instanceRepo := repository.NewSurveyInstanceRepository(db)
	answerRepo := repository.NewSurveyAnswerRepository(db)
	stakeholderRepo := repository.NewStakeholderRepository(db)
	userRepo := repository.NewUserRepository(db)
	measureRepo := repository.NewMeasureRepository(db)

	agg := service.NewAggregator(instanceRepo, answerRepo, templateRepo, stakeholderRepo, userRepo, measureRepo, service.AggregatorConfig{
		TrendWindow:   time.Duration(cfg.Reporting.TrendWindowDays) * day,
		HistoryWindow: time.Duration(cfg.Reporting.HistoryWindowDays) * day,
	})
	identityService := service.NewIdentityService(userRepo)

	jwtManager := token.NewJWTManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpireHours)*time.Hour,
		time.Duration(cfg.JWT.RefreshTokenExpireDays)*day,
	)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	api := r.Group("/api/v1", middleware.AuthMiddleware(jwtManager, identityService, revocation))
	handler.Register(api, handler.Handlers{
		Survey:      handler.NewSurveyHandler(service.NewSurveyService(templateRepo, instanceRepo, answerRepo)),
		Dashboard:   handler.NewDashboardHandler(service.NewDashboardService(agg)),
		Reporting:   handler.NewReportingHandler(service.NewReportingService(agg)),
		Stakeholder: handler.NewStakeholderHandler(service.NewStakeholderService(agg)),
	}, middleware.RequireAdmin())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP 服务监听失败: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP 服务器关闭失败: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("服务已优雅关闭")
}
