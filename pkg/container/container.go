package container

import (
	"context"
	"fmt"
	"time"

	"celebstyle-backend/internal/config"
	infraCache "celebstyle-backend/internal/infrastructure/cache"
	"celebstyle-backend/internal/infrastructure/database"
	"celebstyle-backend/internal/infrastructure/email"
	"celebstyle-backend/internal/infrastructure/queue"
	"celebstyle-backend/internal/infrastructure/storage"
	"celebstyle-backend/internal/shared/middleware"
	"celebstyle-backend/pkg/cache"
	"celebstyle-backend/pkg/jwt"

	adminHandler "celebstyle-backend/internal/domains/admin/handler"
	adminRepo "celebstyle-backend/internal/domains/admin/repository"
	adminService "celebstyle-backend/internal/domains/admin/service"
	affiliateHandler "celebstyle-backend/internal/domains/affiliate/handler"
	affiliateRepo "celebstyle-backend/internal/domains/affiliate/repository"
	affiliateService "celebstyle-backend/internal/domains/affiliate/service"
	blogHandler "celebstyle-backend/internal/domains/blog/handler"
	blogRepo "celebstyle-backend/internal/domains/blog/repository"
	blogService "celebstyle-backend/internal/domains/blog/service"
	categoryHandler "celebstyle-backend/internal/domains/category/handler"
	categoryRepo "celebstyle-backend/internal/domains/category/repository"
	categoryService "celebstyle-backend/internal/domains/category/service"
	celebrityHandler "celebstyle-backend/internal/domains/celebrity/handler"
	celebrityRepo "celebstyle-backend/internal/domains/celebrity/repository"
	celebrityService "celebstyle-backend/internal/domains/celebrity/service"
	"celebstyle-backend/internal/domains/dashboard"
	"celebstyle-backend/internal/domains/home"
	newsletterHandler "celebstyle-backend/internal/domains/newsletter/handler"
	newsletterRepo "celebstyle-backend/internal/domains/newsletter/repository"
	newsletterService "celebstyle-backend/internal/domains/newsletter/service"
	outfitHandler "celebstyle-backend/internal/domains/outfit/handler"
	outfitRepo "celebstyle-backend/internal/domains/outfit/repository"
	outfitService "celebstyle-backend/internal/domains/outfit/service"
	"celebstyle-backend/internal/domains/seo"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

const siteName = "CelebStyle"

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application (root của dependency graph).
// Dùng chung cho cmd/api và cmd/worker.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	Storage     storage.AssetStore
	Images      *storage.ImageProcessor
	Uploader    *storage.Uploader
	AsynqClient *asynq.Client
	Tasks       *queue.TaskClient
	Jobs        queue.Enqueuer
	Mailer      email.Sender // nil khi chưa cấu hình SMTP
	JWTManager  *jwt.Manager
	SEO         *seo.Builder

	// Read model của landing page; services gọi Remove sau khi delete
	Landing home.Containers

	LoginLimiter      *middleware.KeyedRateLimiter
	NewsletterLimiter *middleware.KeyedRateLimiter

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	CelebrityRepo  celebrityRepo.Repository
	OutfitRepo     outfitRepo.Repository
	ProductRepo    affiliateRepo.Repository
	BlogRepo       blogRepo.Repository
	CategoryRepo   categoryRepo.Repository
	NewsletterRepo newsletterRepo.Repository
	AdminRepo      adminRepo.Repository
	DashboardRepo  dashboard.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	CelebrityService  celebrityService.Service
	OutfitService     outfitService.Service
	ProductService    affiliateService.Service
	BlogService       blogService.Service
	CategoryService   categoryService.Service
	NewsletterService newsletterService.Service
	AuthService       adminService.Service
	HomeService       *home.Service
	DashboardService  *dashboard.Service
	FeedService       *seo.FeedService

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	CelebrityHandler  *celebrityHandler.CelebrityHandler
	OutfitHandler     *outfitHandler.OutfitHandler
	ProductHandler    *affiliateHandler.ProductHandler
	BlogHandler       *blogHandler.BlogHandler
	CategoryHandler   *categoryHandler.CategoryHandler
	NewsletterHandler *newsletterHandler.NewsletterHandler
	AuthHandler       *adminHandler.AuthHandler
	HomeHandler       *home.Handler
	DashboardHandler  *dashboard.Handler
	SEOHandler        *seo.Handler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo toàn bộ dependency graph theo thứ tự:
// Config → Infrastructure (DB, Redis, Storage, Queue) → Repositories → Services → Handlers.
// Sai thứ tự sẽ gây nil pointer ở bước sau.
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 3: REPOSITORIES
	// ========================================
	c.initRepositories()
	log.Info().Msg("✅ Repositories initialized")

	// ========================================
	// STEP 4: SERVICES
	// ========================================
	c.initServices()
	log.Info().Msg("✅ Services initialized")

	// ========================================
	// STEP 5: HANDLERS
	// ========================================
	c.initHandlers()
	log.Info().Msg("✅ Handlers initialized")

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure() error {
	cfg := c.Config

	// Database: bắt buộc, Connect tự retry với backoff
	db := database.NewPostgresDB(cfg.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Info().Msg("✅ Database connected")

	// Redis: lỗi không critical, cache miss sẽ đọc thẳng DB
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical)")
	} else {
		log.Info().Msg("✅ Redis connected")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client, cfg.Redis.CachePrefix)

	// Asset Store (MinIO / S3-compatible)
	store, err := storage.NewMinIOStorage(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to init asset store: %w", err)
	}
	c.Storage = store
	c.Images = storage.NewImageProcessor(cfg.Storage.MaxUploadSize)
	c.Uploader = storage.NewUploader(c.Storage, c.Images)
	log.Info().Str("bucket", cfg.Storage.Bucket).Msg("✅ Asset store ready")

	// Queue client (asynq dùng chung Redis)
	c.AsynqClient = asynq.NewClient(c.RedisClientOpt())
	c.Tasks = queue.NewTaskClient(c.AsynqClient, queue.Options{
		MaxRetry:          cfg.Worker.MaxRetry,
		ThumbnailMaxRetry: cfg.Worker.ThumbnailMaxRetry,
		CleanupDelay:      cfg.Worker.AssetCleanupDelay,
	})
	c.Jobs = c.Tasks

	if cfg.Mail.Enabled() {
		c.Mailer = email.NewSMTPSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From, siteName)
		log.Info().Str("smtp_host", cfg.Mail.Host).Msg("✅ Welcome email enabled")
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)
	c.SEO = seo.NewBuilder(cfg.App.PublicOrigin, siteName, "")
	c.Landing = home.NewContainers()

	c.LoginLimiter = middleware.NewKeyedRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	c.NewsletterLimiter = middleware.NewKeyedRateLimiter(cfg.RateLimit.NewsletterRPS, cfg.RateLimit.NewsletterBurst)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CelebrityRepo = celebrityRepo.NewPostgresRepository(pool, c.Cache)
	c.OutfitRepo = outfitRepo.NewPostgresRepository(pool, c.Cache)
	c.ProductRepo = affiliateRepo.NewPostgresRepository(pool, c.Cache)
	c.BlogRepo = blogRepo.NewPostgresRepository(pool, c.Cache)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool, c.Cache)
	c.NewsletterRepo = newsletterRepo.NewPostgresRepository(pool)
	c.AdminRepo = adminRepo.NewPostgresRepository(pool)
	c.DashboardRepo = dashboard.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.CelebrityService = celebrityService.NewService(
		c.CelebrityRepo,
		c.Uploader,
		c.Jobs,
		c.Landing.Celebrities,
		c.Landing.Outfits, // xóa celebrity cascade outfits
	)
	c.OutfitService = outfitService.NewService(
		c.OutfitRepo,
		c.CelebrityService, // cross-domain: kiểm tra celebrity tồn tại
		c.Uploader,
		c.Jobs,
		c.Landing.Outfits,
	)
	c.ProductService = affiliateService.NewService(c.ProductRepo, c.OutfitService, c.Uploader, c.Jobs)
	c.BlogService = blogService.NewService(c.BlogRepo, c.Uploader, c.Jobs, c.Landing.Posts)
	c.CategoryService = categoryService.NewService(c.CategoryRepo, c.Uploader, c.Jobs, c.Landing.Items)
	var welcome newsletterService.WelcomeMailer
	if c.Mailer != nil {
		welcome = c.Tasks
	}
	c.NewsletterService = newsletterService.NewService(c.NewsletterRepo, welcome)
	c.AuthService = adminService.NewService(c.AdminRepo, c.JWTManager)

	c.HomeService = home.NewService(home.Sources{
		Celebrities: c.CelebrityService,
		Outfits:     c.OutfitService,
		Posts:       c.BlogService,
		Items:       c.CategoryService,
	}, c.Landing, home.DefaultOptions())
	c.DashboardService = dashboard.NewService(c.DashboardRepo, c.Cache)
	c.FeedService = seo.NewFeedService(c.SEO, seo.Sources{
		Celebrities: c.CelebrityService,
		Outfits:     c.OutfitService,
		Posts:       c.BlogService,
		Categories:  c.CategoryService,
	}, c.Cache)
}

func (c *Container) initHandlers() {
	maxUpload := c.Config.Storage.MaxUploadSize

	c.CelebrityHandler = celebrityHandler.NewCelebrityHandler(c.CelebrityService, c.SEO, maxUpload)
	c.OutfitHandler = outfitHandler.NewOutfitHandler(c.OutfitService, c.CelebrityService, c.ProductService, c.SEO, maxUpload)
	c.ProductHandler = affiliateHandler.NewProductHandler(c.ProductService, c.OutfitService, maxUpload)
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService, c.SEO, maxUpload)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService, c.SEO, maxUpload)
	c.NewsletterHandler = newsletterHandler.NewNewsletterHandler(c.NewsletterService)
	c.AuthHandler = adminHandler.NewAuthHandler(c.AuthService)
	c.HomeHandler = home.NewHandler(c.HomeService, c.SEO)
	c.DashboardHandler = dashboard.NewHandler(c.DashboardService)
	c.SEOHandler = seo.NewHandler(c.FeedService)
}

// ========================================
// HELPER METHODS
// ========================================

// RedisClientOpt - connection option cho asynq client/server/scheduler
func (c *Container) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.LoginLimiter != nil {
		c.LoginLimiter.Stop()
	}
	if c.NewsletterLimiter != nil {
		c.NewsletterLimiter.Stop()
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close asynq client")
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close database")
		} else {
			log.Info().Msg("✅ Database connections closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		} else {
			log.Info().Msg("✅ Redis connections closed")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
