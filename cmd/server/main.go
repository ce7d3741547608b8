/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the lodging engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize the snapshot store (SQLite, or JSON file with -json)
  3. Load prior state into the repository (missing state starts empty)
  4. Configure HTTP router and start the housekeeper
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: hotel.db)
           Use ":memory:" for an in-memory database
  -json    JSON snapshot file path; when set, replaces the SQLite store

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the housekeeper and close the store
  4. Exit

EXAMPLES:
  # Run with the SQLite store
  ./server -db="./data/hotel.db"

  # Run with the flat-file store
  ./server -json="./data/hotel.json"

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite, store/jsonfile: Store implementations
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/lodging-engine/api"
	"github.com/warp/lodging-engine/booking"
	"github.com/warp/lodging-engine/store/jsonfile"
	"github.com/warp/lodging-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "hotel.db", "SQLite database path")
	jsonPath := flag.String("json", "", "JSON snapshot file path (replaces the SQLite store)")
	flag.Parse()

	// Initialize store
	var st booking.Store
	if *jsonPath != "" {
		st = jsonfile.New(*jsonPath)
	} else {
		sqliteStore, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer sqliteStore.Close()
		st = sqliteStore
	}

	// Load state and wire the engine
	repo := booking.NewRepository(context.Background(), st)
	engine := booking.NewEngine(repo)
	handler := api.NewHandler(engine)
	router := api.NewRouter(handler)

	// Periodic housekeeping
	housekeeper := api.NewHousekeeper(engine)
	housekeeper.Start()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	housekeeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
