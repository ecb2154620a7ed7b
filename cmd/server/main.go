package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"ccrecon/internal/filestore"
	"ccrecon/internal/handlers"
	"ccrecon/internal/logger"
	"ccrecon/internal/version"
)

func main() {
	// Handle --version flag
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("ccrecon server %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		os.Exit(0)
	}

	// Initialize logger first
	logger.Init()
	log := logger.Default()

	// Get data path from env or use default
	dataPath := os.Getenv("CCRECON_DATA_PATH")
	if dataPath == "" {
		dataPath = "./data"
	}

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Initialize report store (generated workbooks live here)
	files, err := filestore.New(filepath.Join(dataPath, "reports"))
	if err != nil {
		log.Error("filestore_init_failed", "path", dataPath, "error", err.Error())
		os.Exit(1)
	}

	h := handlers.New(files)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /reconcile", h.Reconcile)
	mux.HandleFunc("GET /reports/{id}", h.Report)
	mux.HandleFunc("GET /api/version", h.APIVersion)

	handler := logger.HTTPMiddleware(mux)

	log.Info("server_starting", "port", port, "address", "http://localhost:"+port, "version", version.Version)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Error("server_failed", "error", err.Error())
		os.Exit(1)
	}
}
