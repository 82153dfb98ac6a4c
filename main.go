package main

import (
	"flag"
	"log"
	"net/http"

	"chessrules/internal/game"
	"chessrules/internal/handlers"
	"chessrules/internal/logging"
	"chessrules/internal/storage"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	addr := flag.String("addr", ":8080", "listen address")
	dsn := flag.String("dsn", "", "postgres DSN; empty keeps games in memory only")
	flag.Parse()
	logging.SetDebug(*debug)

	var store *storage.Store
	if *dsn != "" {
		db, err := storage.New(*dsn, *debug)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		store = storage.NewStore(db)
		log.Printf("Persisting games to postgres")
	}

	// Initialize game hub
	hub := game.NewHub(store)

	// Initialize HTTP handlers
	h := handlers.NewHandler(hub, version())

	// Register routes
	mux := http.NewServeMux()
	mux.HandleFunc("/new", h.HandleNew)
	mux.HandleFunc("/import", h.HandleImport)
	mux.HandleFunc("/state/", h.HandleState)
	mux.HandleFunc("/sse/", h.HandleSSE)
	mux.HandleFunc("/move/", h.HandleMove)
	mux.HandleFunc("/action/", h.HandleAction)
	mux.HandleFunc("/release/", h.HandleRelease)
	mux.HandleFunc("/stats", h.HandleStats)
	mux.HandleFunc("/healthz", h.HandleHealth)

	log.Printf("chessrules %s listening on %s", version(), *addr)
	log.Fatal(http.ListenAndServe(*addr, handlers.LogRequests(mux)))
}
