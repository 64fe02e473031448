package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/config"
	"github.com/resumatch/resumatch/internal/api/handlers"
	"github.com/resumatch/resumatch/internal/api/middleware"
	"github.com/resumatch/resumatch/internal/api/routes"
	"github.com/resumatch/resumatch/internal/auth"
	"github.com/resumatch/resumatch/internal/cache"
	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/logger"
	"github.com/resumatch/resumatch/internal/mail"
	"github.com/resumatch/resumatch/internal/models"
	"github.com/resumatch/resumatch/internal/otp"
	"github.com/resumatch/resumatch/internal/providers/llm"
	mongorepo "github.com/resumatch/resumatch/internal/repositories/mongo"
	pgrepo "github.com/resumatch/resumatch/internal/repositories/postgres"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/resumatch/resumatch/internal/runner"
	"github.com/resumatch/resumatch/internal/services"
	"github.com/resumatch/resumatch/internal/storage"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	lg.Info("PostgreSQL connected")
	if err := config.PostgresDB.AutoMigrate(&models.User{}, &models.Profile{}, &models.ResumeFile{}); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}

	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	lg.Info("MongoDB connected")
	mongoDB := config.MongoClient.Database(config.MongoDBName())

	// Redis is preferred; a process-local cache keeps single-node
	// deployments working without one.
	var store cache.Cache
	if err := config.InitRedis(); err != nil {
		lg.WithError(err).Warn("Redis unavailable, using in-memory cache")
		mem := cache.NewMemoryCache(time.Minute)
		defer mem.Stop()
		store = mem
	} else {
		lg.Info("Redis connected")
		store = cache.NewRedisCache(config.RedisClient)
	}

	provider := newLLMProvider(lg)
	defer provider.Close()

	uploader := newUploader(lg)

	mailer := mail.NewBrevo(
		os.Getenv("BREVO_API_KEY"),
		envOr("MAIL_FROM_NAME", "ResuMatch"),
		os.Getenv("MAIL_FROM_EMAIL"),
	)

	tokens := auth.NewTokenIssuer(os.Getenv("JWT_SECRET"), "resumatch", auth.DefaultTokenTTL)
	otpStore := otp.NewStore(store, otp.DefaultTTL)
	texts := resume.NewTextService(resume.NewPDFParser(), store, resume.DefaultTextTTL, lg)
	extractor := extract.New(provider, lg)

	users := pgrepo.NewUserRepo(config.PostgresDB)
	profiles := pgrepo.NewProfileRepo(config.PostgresDB)
	files := pgrepo.NewResumeFileRepo(config.PostgresDB)
	contents := mongorepo.NewContentRepo(mongoDB)
	runs := mongorepo.NewScrapeRunRepo(mongoDB)

	// Scrapes run in a child process so a wedged Chrome cannot take the
	// API down with it.
	workerBin := envOr("SCRAPE_WORKER_BIN", "./scrape-worker")
	searchRunner := runner.New(workerBin, nil, lg)

	authSvc := services.NewAuthService(users, otpStore, store, mailer, tokens, lg)
	profileSvc := services.NewProfileService(texts, extractor, profiles, files, uploader, lg)
	jobsSvc := services.NewJobSearchService(texts, extractor, searchRunner, runs, envOr("SCRAPE_PROVIDER", "google"), lg)
	contentSvc := services.NewContentService(texts, extractor, contents, lg)

	secureCookie := os.Getenv("COOKIE_SECURE") == "true"
	cookieMaxAge := int(auth.DefaultTokenTTL.Seconds())

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Tokens:  tokens,
		Auth:    handlers.NewAuthHandler(authSvc, cookieMaxAge, secureCookie),
		Profile: handlers.NewProfileHandler(profileSvc),
		Jobs:    handlers.NewJobsHandler(jobsSvc),
		Content: handlers.NewContentHandler(contentSvc),
	})

	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newLLMProvider(lg *logrus.Logger) llm.Provider {
	if acct := os.Getenv("CF_ACCOUNT_ID"); acct != "" {
		lg.Info("using Cloudflare Workers AI")
		return llm.NewWorkersAI(acct, os.Getenv("CF_API_TOKEN"), os.Getenv("CF_AI_MODEL"))
	}

	project := os.Getenv("GCP_PROJECT")
	if project == "" {
		log.Fatal("set CF_ACCOUNT_ID or GCP_PROJECT to choose an AI provider")
	}
	v, err := llm.NewVertexGemini(context.Background(), project,
		envOr("GCP_LOCATION", "us-central1"), os.Getenv("VERTEX_MODEL"))
	if err != nil {
		log.Fatalf("Vertex init error: %v", err)
	}
	lg.Info("using Vertex Gemini")
	return v
}

func newUploader(lg *logrus.Logger) storage.Uploader {
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		u, err := storage.NewGCSUploader(context.Background(), bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		lg.WithField("bucket", bucket).Info("GCS storage enabled")
		return u
	}
	if dir := os.Getenv("LOCAL_STORAGE_DIR"); dir != "" {
		return storage.NewLocalUploader(dir)
	}
	lg.Warn("no storage configured, resume PDFs will not be archived")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
