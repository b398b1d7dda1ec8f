package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	authrepo "github.com/dlawiz83/SkillSwap/internal/auth/repository"
	authsvc "github.com/dlawiz83/SkillSwap/internal/auth/service"
	bookingrepo "github.com/dlawiz83/SkillSwap/internal/booking/repository"
	bookingsvc "github.com/dlawiz83/SkillSwap/internal/booking/service"
	"github.com/dlawiz83/SkillSwap/internal/gateway/handlers"
	karmarepo "github.com/dlawiz83/SkillSwap/internal/karma/repository"
	karmasvc "github.com/dlawiz83/SkillSwap/internal/karma/service"
	matchrepo "github.com/dlawiz83/SkillSwap/internal/match/repository"
	matchsvc "github.com/dlawiz83/SkillSwap/internal/match/service"
	"github.com/dlawiz83/SkillSwap/internal/notification/events"
	"github.com/dlawiz83/SkillSwap/internal/notification/notifier"
	"github.com/dlawiz83/SkillSwap/internal/notification/worker"
	profilerepo "github.com/dlawiz83/SkillSwap/internal/profile/repository"
	profilesvc "github.com/dlawiz83/SkillSwap/internal/profile/service"
	"github.com/dlawiz83/SkillSwap/pkg/config"
	"github.com/dlawiz83/SkillSwap/pkg/db"
	"github.com/dlawiz83/SkillSwap/pkg/mq"
	"github.com/dlawiz83/SkillSwap/pkg/obs"
)

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func main() {
	_ = godotenv.Load()
	cfg := must(config.Load())

	if cfg.OTELEndpoint != "" {
		shutdown := obs.InitTracer("skillswap")
		defer func() { _ = shutdown(context.Background()) }()
	}

	gdb := db.Open(cfg.PGDSN)

	profiles := profilerepo.NewProfileRepo(gdb)
	ledgers := karmarepo.NewLedgerRepo(gdb)
	requests := matchrepo.NewRequestRepo(gdb)
	bookings := bookingrepo.NewBookingRepo(gdb)
	creds := authrepo.NewCredentialRepo(gdb)
	for _, m := range []interface{ Migrate() error }{profiles, ledgers, requests, bookings, creds} {
		if err := m.Migrate(); err != nil {
			log.Fatal(err)
		}
	}

	// Publisher for match/booking/karma events; nil without a broker.
	var pub *mq.Publisher
	if cfg.RabbitURL != "" {
		pub = must(mq.NewPublisher(cfg.RabbitURL, cfg.EventsExchange))
		defer pub.Close()
	}

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	ledger := karmasvc.NewLedger(gdb, ledgers, pub)
	profileSvc := profilesvc.NewProfileSvc(gdb, profiles, ledger)
	requestSvc := matchsvc.NewRequestSvc(requests, profileSvc, pub)
	discovery := matchsvc.NewDiscovery(profileSvc, cache)
	bookingSvc := bookingsvc.NewBookingSvc(gdb, bookings, profileSvc, requestSvc, ledger, pub)
	authSvc := authsvc.NewAuthSvc(gdb, creds, profileSvc, time.Duration(cfg.JWTExpireMin)*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Notification worker, only when a broker is configured.
	if cfg.RabbitURL != "" {
		cons := must(mq.NewConsumer(cfg.RabbitURL, cfg.EventsExchange, cfg.NotifyQueue,
			[]string{events.RKMatchRequested, events.RKMatchAccepted, events.RKMatchRejected,
				events.RKBookingConfirmed, events.RKBookingCancelled, events.RKKarmaTransferred}))
		defer cons.Close()
		w := worker.NewWorker(cons, notifier.NewConsole())
		go func() {
			if err := w.Run(ctx); err != nil {
				log.Printf("[skillswap] notify worker: %v", err)
			}
		}()
		log.Println("[skillswap] notification worker started")
	}

	r := gin.Default()
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	handlers.Register(r, handlers.Deps{
		Auth:      authSvc,
		Profiles:  profileSvc,
		Discovery: discovery,
		Requests:  requestSvc,
		Bookings:  bookingSvc,
		Ledger:    ledger,
	})

	go func() {
		log.Println("[skillswap] http listening on", cfg.HTTPAddr)
		if err := r.Run(cfg.HTTPAddr); err != nil {
			log.Fatal(err)
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	cancel()
	log.Println("[skillswap] stopped")
}
