package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mehrbod2002/fxmobile/internal/config"
	"github.com/mehrbod2002/fxmobile/internal/sandbox"
	"github.com/mehrbod2002/fxmobile/internal/sandbox/repository"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := sandbox.MemoryRepositories()
	if cfg.MongoURI != "" {
		client, err := repository.Connect(cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer client.Disconnect(context.Background())
		repos = sandbox.MongoRepositories(client, cfg.MongoDB)
		log.Printf("Using MongoDB database %s", cfg.MongoDB)
	} else {
		log.Println("MONGO_URI not set, using in-memory storage")
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
		repos.OTP = repository.NewRedisOTPStore(rdb)
		log.Printf("Storing OTPs in Redis at %s", cfg.RedisAddr)
	}

	server, err := sandbox.New(ctx, cfg, repos)
	if err != nil {
		return fmt.Errorf("failed to build sandbox: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	log.Printf("Starting sandbox API on %s", addr)
	log.Printf("Swagger UI available at http://%s/swagger/index.html", addr)
	log.Printf("Event stream available at ws://%s/user/events", addr)
	log.Printf("Metrics available at http://%s/metrics", addr)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return serve(ctx, &http.Server{Handler: server.Engine}, ln)
}

// serve blocks until ctx is done and in-flight requests have drained, or
// until the listener fails.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		log.Println("Shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Failed to shut down cleanly: %v", err)
		}
	}()

	err := srv.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-drained
		return fmt.Errorf("server stopped: %w", err)
	}
	<-drained
	return nil
}
