package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	"github.com/BruksfildServices01/lead-crm/internal/avatar"
	"github.com/BruksfildServices01/lead-crm/internal/config"
	dbpkg "github.com/BruksfildServices01/lead-crm/internal/db"
	infraRepo "github.com/BruksfildServices01/lead-crm/internal/infra/repository"
	"github.com/BruksfildServices01/lead-crm/internal/llm"
	"github.com/BruksfildServices01/lead-crm/internal/mail"
	"github.com/BruksfildServices01/lead-crm/internal/otp"
	"github.com/BruksfildServices01/lead-crm/internal/queue"
	"github.com/BruksfildServices01/lead-crm/internal/routes"
	"github.com/BruksfildServices01/lead-crm/internal/validators"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	deps := routes.Deps{
		DB:        db,
		Bookings:  infraRepo.NewBookingGormRepository(db),
		Users:     infraRepo.NewUserGormRepository(db),
		Audit:     auditDispatcher,
		Publisher: queue.NopPublisher{},
		Codes:     otpStore(ctx, cfg),
		Mail:      mailSender(cfg),
	}

	if !cfg.SkipEmailDomainCheck {
		deps.DomainCheck = validators.NewDomainChecker().Valid
	} else {
		deps.DomainCheck = func(string) bool { return true }
	}

	if cfg.AvatarEnabled() {
		deps.Avatars = avatar.NewS3Storage(avatar.S3Config{
			Bucket:     cfg.S3Bucket,
			Region:     cfg.S3Region,
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			PublicBase: cfg.S3PublicBase,
		})
	} else {
		log.Println("S3_BUCKET not set, avatar uploads disabled")
	}

	var flows *llm.Flows
	if cfg.LLMEnabled() {
		flows = llm.NewFlows(llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout))
		deps.AI = flows
	} else {
		log.Println("LLM_API_KEY not set, AI endpoints disabled")
	}

	workerDone := make(chan struct{})
	close(workerDone)

	if cfg.QueueEnabled() {
		mq, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mq.Close()
		deps.Publisher = queue.NewProducer(mq.Ch)

		if flows != nil {
			worker := queue.NewWorker(mq.Ch, flows, auditDispatcher)
			workerDone = make(chan struct{})
			go func() {
				defer close(workerDone)
				if err := worker.Start(ctx); err != nil {
					log.Printf("auto-reply worker stopped: %v", err)
				}
			}()
		}
	}

	r := gin.Default()
	routes.RegisterRoutes(r, cfg, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone
}

// otpStore falls back to process memory when redis is unreachable.
func otpStore(ctx context.Context, cfg *config.Config) otp.Store {
	if cfg.RedisAddr == "" {
		return otp.NewMemoryStore()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unavailable (%v), keeping OTP codes in memory", err)
		rdb.Close()
		return otp.NewMemoryStore()
	}
	return otp.NewRedisStore(rdb)
}

func mailSender(cfg *config.Config) mail.Sender {
	if !cfg.MailEnabled() {
		log.Println("SMTP_HOST not set, reset codes will not be delivered")
		return mail.LogSender{}
	}
	return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
}
