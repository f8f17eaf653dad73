package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/stock-tally/internal/adapter/handler"
	"github.com/rl1809/stock-tally/internal/app"
	"github.com/rl1809/stock-tally/internal/config"
	"github.com/rl1809/stock-tally/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Development: cfg.Development(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Service:     cfg.ServiceName,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	handler.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(a.Service, log.Named("grpc")))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		a.Close(context.Background())
		return fmt.Errorf("listen grpc: %w", err)
	}

	go func() {
		log.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	// Initialize HTTP server
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.NewHTTPHandler(a.Service, log.Named("http")).Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown", zap.Error(err))
	}
	log.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	log.Info("gRPC server stopped")

	// drain pending writes and close the backend
	if err := a.Close(shutdownCtx); err != nil {
		return err
	}
	log.Info("preferences closed")

	return nil
}
