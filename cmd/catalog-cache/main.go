package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

// run carries the whole lifetime of the process so deferred cleanup runs
// on every exit path, failed boots included.
func run() int {
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		return 1
	}

	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	// Install populates the shell; a failed critical populate aborts boot
	// so a broken shell is never served.
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer bootCancel()

	if err := root.Manager.Install(bootCtx); err != nil {
		root.Logger.Error("Install failed", zap.Error(err))
		return 1
	}

	// Activation purges superseded generations and claims request handling
	// for this version.
	if err := root.Manager.Activate(bootCtx); err != nil {
		root.Logger.Error("Activation failed", zap.Error(err))
		return 1
	}

	go func() {
		if err := root.Server.Start(root.Config.Server.ListenAddr); err != nil {
			root.Logger.Error("Gateway server stopped", zap.Error(err))
		}
	}()

	if root.Prefetcher != nil {
		root.Prefetcher.Start()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down...")

	if root.Prefetcher != nil {
		root.Prefetcher.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.Server.Stop(ctx); err != nil {
		root.Logger.Error("Gateway server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
	return 0
}
