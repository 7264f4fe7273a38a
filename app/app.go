package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	adapterhttp "segment-service/ddd/adapter/http"
	appsvc "segment-service/ddd/application/app"
	"segment-service/ddd/domain/service"
	"segment-service/ddd/infrastructure/database/dao"
	"segment-service/ddd/infrastructure/database/persistence"
	"segment-service/ddd/infrastructure/events"
	"segment-service/ddd/infrastructure/executor"
	"segment-service/ddd/infrastructure/queue"
	"segment-service/ddd/infrastructure/storage"
	"segment-service/ddd/infrastructure/worker"
	"segment-service/internal/resource"
	"segment-service/pkg/config"
	"segment-service/pkg/logger"
	"segment-service/pkg/middleware"
	"segment-service/pkg/registry"
)

// Run boots the segment service: config, resources, pipeline wiring, HTTP
// server, then a signal-driven graceful shutdown.
func Run() {
	fmt.Println("[STARTUP] Starting segment service...")

	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	config.SetGlobalConfig(cfg)

	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	defer logService.Close()

	logger.Infof("Segment service starting config=%s", cfgPath)

	// Fail fast when the encoder binary is missing.
	ffmpegBin := cfg.Transcode.FFmpeg.BinaryPath
	if _, err := exec.LookPath(ffmpegBin); err != nil {
		logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set transcode.ffmpeg.binary_path binary=%s error=%s", ffmpegBin, err.Error()))
	}

	logger.Infof("Initializing resources...")
	mysqlResource := resource.DefaultMysqlResource()
	mysqlResource.MustOpen()
	defer mysqlResource.Close()

	minioResource := resource.DefaultMinioResource()
	minioResource.MustOpen()

	var redisResource *resource.RedisResource
	if cfg.Sweep.Enabled {
		redisResource = resource.DefaultRedisResource()
		redisResource.MustOpen()
		defer redisResource.Close()
	}

	kafkaResource := resource.DefaultKafkaResource()
	kafkaResource.MustOpen()
	defer kafkaResource.Close()
	logger.Infof("Resources initialized")

	if err := dao.AutoMigrate(mysqlResource.MainDB()); err != nil {
		logger.Fatal(fmt.Sprintf("Database migration failed error=%v", err))
	}

	// Pipeline wiring.
	logger.Infof("Wiring pipeline components...")
	segmentRepo := persistence.NewSegmentRepository()
	videoRepo := persistence.NewSourceVideoRepository()
	creditRepo := persistence.NewCreditRepository()
	backgroundRepo := persistence.NewBackgroundRepository()

	storageGateway := storage.NewMinioStorage(minioResource, cfg)
	encodeExecutor := executor.NewFFmpegExecutor(cfg, storageGateway)
	eventPublisher := events.NewKafkaEventPublisher(kafkaResource, cfg)

	pipeline := service.NewPipelineService(segmentRepo, videoRepo, backgroundRepo, encodeExecutor, eventPublisher)

	encodeQueue := queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)
	compositeQueue := queue.NewMemoryJobQueue(cfg.Worker.QueueCapacity)

	segmentApp := appsvc.NewSegmentAppWith(segmentRepo, videoRepo, creditRepo, backgroundRepo,
		encodeQueue, compositeQueue, eventPublisher, cfg)
	videoApp := appsvc.NewVideoAppWith(videoRepo, encodeExecutor)
	creditApp := appsvc.DefaultCreditApp()

	encodeWorker := worker.NewSegmentWorker("encode", encodeQueue, pipeline, cfg.Worker.EncodeWorkers)
	compositeWorker := worker.NewSegmentWorker("composite", compositeQueue, pipeline, cfg.Worker.CompositeWorkers)

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	if err := encodeWorker.Start(rootCtx); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start encode workers error=%v", err))
	}
	if err := compositeWorker.Start(rootCtx); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start composite workers error=%v", err))
	}

	var sweeper *worker.StaleSweeper
	if cfg.Sweep.Enabled {
		sweeper = worker.NewStaleSweeper(segmentRepo, redisResource.Client(), cfg)
		if err := sweeper.Start(rootCtx); err != nil {
			logger.Fatal(fmt.Sprintf("Failed to start stale sweeper error=%v", err))
		}
	}
	logger.Infof("Pipeline components running encode_workers=%d composite_workers=%d", cfg.Worker.EncodeWorkers, cfg.Worker.CompositeWorkers)

	// HTTP surface.
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestContextMiddleware())
	engine.Use(middleware.AuthMiddleware(cfg.JWT))

	adapterhttp.RegisterRoutes(engine, adapterhttp.Controllers{
		Segment: adapterhttp.NewSegmentController(segmentApp),
		Video:   adapterhttp.NewVideoController(videoApp),
		Credit:  adapterhttp.NewCreditController(creditApp),
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started addr=%s health_url=http://localhost:%d/health", addr, cfg.Server.Port)

	var serviceRegistry *registry.ServiceRegistry
	if cfg.ServiceRegistry.Enabled {
		regAddr := cfg.ServiceRegistry.RegisterHost
		if regAddr == "" {
			regAddr = addr
		}
		serviceRegistry, err = registry.NewServiceRegistry(cfg.ServiceRegistry, regAddr)
		if err != nil {
			logger.Fatal(fmt.Sprintf("Failed to create service registry error=%v", err))
		}
		if err := serviceRegistry.Register(); err != nil {
			logger.Fatal(fmt.Sprintf("Failed to register service error=%v", err))
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		serviceRegistry.Close()
	}

	// Stop intake first, then drain the pipeline.
	if sweeper != nil {
		_ = sweeper.Stop()
	}
	_ = encodeQueue.Close()
	_ = compositeQueue.Close()

	drainDone := make(chan struct{})
	go func() {
		defer close(drainDone)
		_ = encodeWorker.Stop()
		_ = compositeWorker.Stop()
	}()

	grace := cfg.Worker.ShutdownGracePeriod
	if grace <= 0 {
		grace = 30 * time.Second
	}
	select {
	case <-drainDone:
		logger.Infof("Worker pools drained")
	case <-time.After(grace):
		logger.Warnf("Worker drain exceeded grace period, abandoning in-flight jobs grace=%s", grace)
		rootCancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to close error=%v", err)
	}

	logger.Infof("Server exited safely")
}

// resolveConfigPath picks the config file, honoring CONFIG_PATH and CONFIG_ENV.
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
