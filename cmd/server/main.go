package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"tutorhub/gateway/internal/auth"
	"tutorhub/gateway/internal/backend"
	"tutorhub/gateway/internal/config"
	"tutorhub/gateway/internal/gate"
	internalhttp "tutorhub/gateway/internal/http"
	"tutorhub/gateway/internal/jobs"
	"tutorhub/gateway/internal/marker"
	"tutorhub/gateway/internal/resolve"
	"tutorhub/gateway/internal/userdata"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier := auth.NewVerifier(cfg.JWTIssuer)
	if cfg.JWTPublicKey != "" {
		publicKey, err := auth.ParseRSAPublicKey(cfg.JWTPublicKey)
		if err != nil {
			log.Fatalf("jwt public key parse failed: %v", err)
		}
		verifier.SetStaticKey(publicKey)
	}
	if cfg.JWKSURL != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		set, err := jobs.FetchJWKS(fetchCtx, &http.Client{Timeout: 10 * time.Second}, cfg.JWKSURL)
		cancel()
		if err != nil {
			log.Fatalf("jwks fetch failed: %v", err)
		}
		if err := verifier.SetKeys(set); err != nil {
			log.Fatalf("jwks parse failed: %v", err)
		}
	}
	if cfg.JWTPublicKey == "" && cfg.JWKSURL == "" {
		log.Fatalf("no identity provider key configured: set JWT_PUBLIC_KEY or JWKS_URL")
	}

	markers, cleanup, err := newMarkerStore(ctx, cfg)
	if err != nil {
		log.Fatalf("marker store init failed: %v", err)
	}
	defer cleanup()

	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	resolver := resolve.NewResolver(backendClient, markers, cfg.LinkFailureBlocks)
	accessGate := gate.New(verifier, resolver)
	users := userdata.NewLoader(backendClient)

	server := internalhttp.NewServer(cfg, verifier, accessGate, markers, users)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	jobs.StartJWKSRefreshJob(ctx, cfg, verifier)

	go func() {
		log.Printf("gateway http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newMarkerStore(ctx context.Context, cfg config.Config) (marker.Store, func(), error) {
	switch cfg.MarkerStore {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}
		return marker.NewRedisStore(redisClient, cfg.MarkerTTL), cleanup, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := marker.NewPostgresStore(pool, cfg.MarkerTTL)
		if err := store.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		return marker.NewMemoryStore(cfg.MarkerTTL), func() {}, nil
	}
}
