package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-admin/clients"
	"product-admin/controllers"
	"product-admin/toast"
	"product-admin/imagestore"
	"product-admin/logger"
	"product-admin/middleware"
	awspkg "product-admin/pkg/aws"
	"product-admin/routes"
	"product-admin/services"
	"product-admin/templates"
	"product-admin/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "product-admin"

func main() {
	cfg, err := LoadConfig(context.Background())
	if err != nil {
		// Logger is not up yet; fall back to a production logger for the fatal.
		zap.Must(zap.NewProduction()).Fatal("Failed to load configuration", zap.Error(err))
	}

	log := logger.Initialize(cfg.AppEnv)
	defer log.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- 1. Infrastructure ---

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	images, err := imagestore.New(startupCtx, imagestore.FactoryConfig{
		Driver:      cfg.ImageStoreDriver,
		RedisURL:    cfg.RedisURL,
		DynamoTable: cfg.DynamoImagesTable,
	})
	if err != nil {
		cancelStartup()
		log.Fatal("Failed to initialize image store", zap.String("driver", cfg.ImageStoreDriver), zap.Error(err))
	}
	log.Info("Image store ready", zap.String("driver", images.Driver))

	var metrics awspkg.Recorder = awspkg.NopRecorder{}
	if cfg.CloudWatchEnabled {
		awsCfg, err := awspkg.LoadAWSConfig(startupCtx)
		if err != nil {
			log.Warn("Failed to load AWS config, metrics disabled", zap.Error(err))
		} else {
			metrics = awspkg.NewMetricsClient(awsCfg, "ProductAdmin", true)
		}
	}
	cancelStartup()

	// --- 2. Dependency injection ---

	api := clients.NewProductClient(cfg.ProductAPIURL, cfg.ProductAPITimeout, cfg.PlaceholderImage)
	validator := validation.NewProductValidator()
	catalog := services.NewCatalogService(api, images.Store, validator, metrics, log)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ProductAPITimeout)
		defer cancel()
		if err := catalog.Load(ctx); err != nil {
			log.Warn("Initial product load failed", zap.Error(err))
		}
	}()

	toasts := toast.NewSealer([]byte(cfg.FlashSecret), cfg.IsProduction())
	productController := controllers.NewProductController(catalog, validator, toasts, cfg.MaxImageBytes)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, 0, 10*time.Minute)
	stopSweeper := make(chan struct{})
	go limiter.Run(stopSweeper)

	// --- 3. HTTP server & middleware ---

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Metrics(metrics, serviceName))
	r.Use(middleware.Toasts(toasts))

	tmpl, err := templates.Parse()
	if err != nil {
		log.Fatal("Failed to parse templates", zap.Error(err))
	}
	r.SetHTMLTemplate(tmpl)

	routes.RegisterRoutes(r, productController, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Product admin starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- 4. Graceful shutdown ---

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down product admin...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	close(stopSweeper)

	if err := images.Close(); err != nil {
		log.Error("Failed to close image store", zap.Error(err))
	}

	log.Info("Product admin stopped gracefully")
}
