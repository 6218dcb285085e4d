package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tailscale.com/tsnet"

	"github.com/marcossootooo-ctrl/trainuppp/internal/coach"
	"github.com/marcossootooo-ctrl/trainuppp/internal/config"
	"github.com/marcossootooo-ctrl/trainuppp/internal/haptics"
	"github.com/marcossootooo-ctrl/trainuppp/internal/server"
	"github.com/marcossootooo-ctrl/trainuppp/internal/session"
	"github.com/marcossootooo-ctrl/trainuppp/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("TrainUp starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open profile store (runs migrations)
	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	log.Info("store opened", "path", cfg.Storage.Path)

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Coach client
	var opts []coach.Option
	if cfg.AI.BaseURL != "" {
		opts = append(opts, coach.WithBaseURL(cfg.AI.BaseURL))
	}
	if cfg.AI.ChatModel != "" {
		opts = append(opts, coach.WithChatModel(cfg.AI.ChatModel))
	}
	if cfg.AI.ImageModel != "" {
		opts = append(opts, coach.WithImageModel(cfg.AI.ImageModel))
	}
	svc := coach.NewClient(cfg.AI.APIKey, opts...)

	// Session
	sess, err := session.New(st, svc, haptics.Logger{Log: log}, log)
	if err != nil {
		log.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	srv := server.New(sess, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
