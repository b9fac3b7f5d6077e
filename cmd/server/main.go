package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/config"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/domain/fiber/handler"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/logger"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/middleware"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/repository"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/service"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/usecase"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	zlog, err := logger.New(appConfig.Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env == "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB(zlog)

	internshipRepo := repository.NewInternshipRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	gemini, err := service.NewGeminiService(ctx, zlog)
	if err != nil {
		zlog.Fatal("init gemini service", zap.Error(err))
	}

	indexConfig := config.LoadIndexConfig()

	var searcher usecase.VectorSearcher
	var writer usecase.IndexWriter
	switch indexConfig.Backend {
	case "pgvector":
		pgIndex := repository.NewPgvectorIndex(internshipRepo, gemini)
		searcher, writer = pgIndex, pgIndex
	default:
		fileIndex := vectorindex.New(gemini, indexConfig.Path)
		searcher, writer = fileIndex, fileIndex
	}

	var structurer usecase.Structurer = gemini
	if indexConfig.Provider == "openrouter" {
		structurer = service.NewOpenRouterService()
	}

	matchUC := usecase.NewMatchUsecase(searcher, writer, internshipRepo, indexConfig.FetchK, zlog)
	resumeUC := usecase.NewResumeUsecase(profileRepo, structurer, matchUC, indexConfig.TopK, zlog)
	catalogUC := usecase.NewCatalogUsecase(internshipRepo)

	handler.NewResumeHandler(resumeUC, "").RegisterRoutes(app)
	handler.NewInternshipHandler(catalogUC, resumeUC).RegisterRoutes(app)
	handler.NewIndexHandler(matchUC).RegisterRoutes(app)

	zlog.Info("server running",
		zap.String("port", appConfig.Port),
		zap.String("index_backend", indexConfig.Backend))
	if err := app.Listen(appConfig.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func ConnectDB(zlog *zap.Logger) *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zlog.Fatal("could not connect to database", zap.Error(err))
	}
	pgDB, err := db.DB()
	if err != nil {
		zlog.Fatal("could not get database instance", zap.Error(err))
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	// The uuid default and the vector column type need their extensions
	// before automigration touches the tables.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		zlog.Fatal("enable uuid extension", zap.Error(err))
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		zlog.Fatal("enable pgvector extension", zap.Error(err))
	}

	if err := db.AutoMigrate(&model.Internship{}, &model.CandidateProfile{}); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	return db
}
