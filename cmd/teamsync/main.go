package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mpreston/teamsync/internal/app"
	"github.com/mpreston/teamsync/internal/logger"
)

var version = "dev"

// envDefault returns the environment value for key, or the fallback.
func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// .env is optional; flags and real environment win over it
	godotenv.Load()

	port := flag.String("port", envDefault("PORT", "8787"), "HTTP server port")
	dbPath := flag.String("db", envDefault("TEAMSYNC_DB", "teamsync.db"), "SQLite database path")
	logLevel := flag.String("loglevel", envDefault("TEAMSYNC_LOGLEVEL", "info"), "Log level (debug, info, warn, error)")
	httpLog := flag.Bool("httplog", false, "Log every HTTP request")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `teamsync - shared team-state coordination server

Usage:
  teamsync [options]

Options:
  -port string     HTTP server port (default "8787", env PORT)
  -db string       SQLite database path (default "teamsync.db", env TEAMSYNC_DB)
  -loglevel string Log level: debug, info, warn, error (default "info")
  -httplog         Log every HTTP request
  -version         Show version and exit
  -help            Show this help message

Examples:
  teamsync                        # Run on port 8787 with teamsync.db
  teamsync -port 8080             # Run on port 8080
  teamsync -db /data/teams.db     # Use custom database path
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("teamsync %s\n", version)
		os.Exit(0)
	}

	appLog := logger.NewWithLevel(logger.ParseLevel(*logLevel))
	if *httpLog {
		appLog.EnableHTTPLogging()
	}

	a, err := app.New(appLog, *dbPath)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	addr := ":" + *port
	if err := a.Run(addr); err != nil {
		log.Fatal(err)
	}
}
