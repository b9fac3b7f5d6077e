// Command loader bulk-imports internship postings from a CSV file and
// rebuilds the vector index, the offline half of the recommendation
// pipeline. Expected header:
//
//	title,company,description,skills,location,duration,stipend,job_type
//
// with skills pipe-separated inside their column.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/config"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/logger"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/model"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/repository"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/resume"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/service"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/usecase"
	"github.com/jadhavaryan403/AI-Internship-Recommender/internal/vectorindex"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const skillSeparator = "|"

func getDBConn() (*gorm.DB, error) {
	type dbEnv struct {
		Host     string `env:"DB_HOST" envDefault:"localhost"`
		Port     string `env:"DB_PORT" envDefault:"5432"`
		User     string `env:"DB_USER,required"`
		Password string `env:"DB_PASSWORD,required"`
		Name     string `env:"DB_NAME,required"`
		SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	}

	var cfg dbEnv
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s application_name=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode, "internship-loader")

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

type column int

const (
	colTitle column = iota
	colCompany
	colDescription
	colSkills
	colLocation
	colDuration
	colStipend
	colJobType
)

func convertRecord(record []string) (model.Internship, error) {
	if len(record) < int(colJobType)+1 {
		return model.Internship{}, fmt.Errorf("expected %d columns, got %d", colJobType+1, len(record))
	}

	skills := resume.Normalize(strings.Split(record[colSkills], skillSeparator))
	if len(skills) == 0 {
		return model.Internship{}, errors.New("no skills listed")
	}

	jobType := strings.ToLower(strings.TrimSpace(record[colJobType]))
	switch jobType {
	case "remote", "on-site", "hybrid":
	case "":
		jobType = "on-site"
	default:
		return model.Internship{}, fmt.Errorf("unknown job type %q", record[colJobType])
	}

	return model.Internship{
		Title:          strings.TrimSpace(record[colTitle]),
		Company:        strings.TrimSpace(record[colCompany]),
		Description:    strings.TrimSpace(record[colDescription]),
		SkillsRequired: skills,
		Location:       strings.TrimSpace(record[colLocation]),
		Duration:       strings.TrimSpace(record[colDuration]),
		Stipend:        strings.TrimSpace(record[colStipend]),
		JobType:        jobType,
		IsActive:       true,
	}, nil
}

func importCSV(f *os.File, repo *repository.InternshipRepository, zlog *zap.Logger) (int, error) {
	csvReader := csv.NewReader(f)
	if _, err := csvReader.Read(); err != nil {
		return 0, fmt.Errorf("unable to read CSV header: %w", err)
	}

	var imported, skipped int
	line := 1
	for {
		record, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return imported, fmt.Errorf("unable to parse CSV line %d: %w", line, err)
		}
		line++

		internship, err := convertRecord(record)
		if err != nil {
			zlog.Warn("skipping row", zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}

		if err := repo.Create(&internship); err != nil {
			return imported, fmt.Errorf("insert row at line %d: %w", line, err)
		}
		imported++
	}

	zlog.Info("import finished", zap.Int("imported", imported), zap.Int("skipped", skipped))
	return imported, nil
}

func main() {
	file := flag.String("file", "internships.csv", "CSV file with internship postings")
	skipIndex := flag.Bool("skip-index", false, "import rows without rebuilding the vector index")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	zlog, err := logger.New(config.LoadAppConfig().Env)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := getDBConn()
	if err != nil {
		zlog.Fatal("connect database", zap.Error(err))
	}
	if err := db.AutoMigrate(&model.Internship{}); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	repo := repository.NewInternshipRepository(db)

	f, err := os.Open(*file)
	if err != nil {
		zlog.Fatal("open CSV", zap.Error(err))
	}
	defer func() {
		if err := f.Close(); err != nil {
			zlog.Warn("close CSV", zap.Error(err))
		}
	}()

	if _, err := importCSV(f, repo, zlog); err != nil {
		zlog.Fatal("import failed", zap.Error(err))
	}

	if *skipIndex {
		return
	}

	ctx := context.Background()
	gemini, err := service.NewGeminiService(ctx, zlog)
	if err != nil {
		zlog.Fatal("init gemini service", zap.Error(err))
	}

	indexConfig := config.LoadIndexConfig()
	var writer usecase.IndexWriter
	if indexConfig.Backend == "pgvector" {
		writer = repository.NewPgvectorIndex(repo, gemini)
	} else {
		writer = vectorindex.New(gemini, indexConfig.Path)
	}

	matcher := usecase.NewMatchUsecase(nil, writer, repo, 0, zlog)
	count, err := matcher.BuildIndex(ctx)
	if err != nil {
		zlog.Fatal("index rebuild failed", zap.Error(err))
	}
	zlog.Info("vector index ready", zap.Int("vectors", count))
}
