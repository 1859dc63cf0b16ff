package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"launch-booking/internal/database"
	"launch-booking/internal/server"
)

func main() {
	if os.Getenv("MIGRATE_ON_START") == "true" {
		if err := database.Migrate(); err != nil {
			log.Fatalf("Error migrating database: %v", err)
		}
	}

	srv := server.NewServer()

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		log.Fatalf("Error creating listener: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("GraphQL API listening on %s/graphql", srv.Addr)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server encountered an error: %v", err)
			errChan <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-stop:
		log.Printf("Received signal %s, initiating graceful shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Shutdown also closes the launch cache and the database via RegisterOnShutdown.
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("Could not gracefully shut down the server: %v", err)
		}

		log.Println("Server gracefully stopped")
	}
}
