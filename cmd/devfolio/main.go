// main.go - portfolio analytics server
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devfolio/internal"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("devfolio: %v", err)
	}
}

func run() error {
	app, err := internal.NewApp()
	if err != nil {
		return err
	}

	// Schema is migrated on every boot; AutoMigrate is a no-op when the
	// tables already match
	log.Println("Migrating schema...")
	if err := app.DBManager.MigrateDatabase(); err != nil {
		return err
	}

	log.Println("Starting analytics server...")
	if err := app.StartAsync(); err != nil {
		return err
	}
	log.Println("Server up, waiting for traffic")

	sig := awaitSignal()
	log.Printf("Caught %v, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Shutdown complete")
	return nil
}

func awaitSignal() os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	return <-sigChan
}
