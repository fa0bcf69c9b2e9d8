package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jayronsoares/index-analysis-tool/internal/db"
	"github.com/jayronsoares/index-analysis-tool/internal/graph"
	"github.com/jayronsoares/index-analysis-tool/internal/layout"
	"github.com/jayronsoares/index-analysis-tool/internal/logger"
	"github.com/jayronsoares/index-analysis-tool/internal/metadata"
	"github.com/jayronsoares/index-analysis-tool/pkg/config"
)

const defaultPort = 8080

// app holds the request-scoped collaborators of the render pipeline. The
// current schema/table selection is never stored here; it arrives with each
// request.
type app struct {
	db   *sql.DB
	seed int64
}

// writeJSON writes v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError converts a pipeline failure into a user-visible JSON message.
func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("%s", msg)
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}

// handleSchemas lists the selectable schemas.
func (a *app) handleSchemas(w http.ResponseWriter, r *http.Request) {
	schemas, err := metadata.ListSchemas(r.Context(), a.db)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cannot reach database: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Schemas []string `json:"schemas"`
	}{Schemas: schemas})
}

// handleTables lists the tables of the selected schema.
func (a *app) handleTables(w http.ResponseWriter, r *http.Request) {
	schema := r.URL.Query().Get("schema")
	if schema == "" {
		writeError(w, http.StatusBadRequest, "missing schema parameter")
		return
	}
	tables, err := metadata.ListTables(r.Context(), a.db, schema)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cannot reach database: %v", err)
		return
	}
	if len(tables) == 0 {
		ok, err := metadata.SchemaExists(r.Context(), a.db, schema)
		if err != nil {
			writeError(w, http.StatusBadGateway, "cannot reach database: %v", err)
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "schema %s: %v", schema, graph.ErrNotFound)
			return
		}
	}
	writeJSON(w, http.StatusOK, struct {
		Tables []metadata.TableMeta `json:"tables"`
	}{Tables: tables})
}

// handleGraph runs the full pipeline for one (schema, table) selection:
// metadata query, graph build, layout, figure encoding.
func (a *app) handleGraph(w http.ResponseWriter, r *http.Request) {
	schema := r.URL.Query().Get("schema")
	table := r.URL.Query().Get("table")
	if schema == "" || table == "" {
		writeError(w, http.StatusBadRequest, "missing schema or table parameter")
		return
	}

	ok, err := metadata.TableExists(r.Context(), a.db, schema, table)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cannot reach database: %v", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "table %s.%s: %v", schema, table, graph.ErrNotFound)
		return
	}

	indexes, err := metadata.TableIndexes(r.Context(), a.db, schema, table)
	if err != nil {
		writeError(w, http.StatusBadGateway, "cannot reach database: %v", err)
		return
	}

	g, err := graph.Build(schema, table, indexes)
	if err != nil && !errors.Is(err, graph.ErrNoIndexes) {
		writeError(w, http.StatusInternalServerError, "build graph for %s.%s: %v", schema, table, err)
		return
	}
	logger.Debug("graph for %s.%s: %d nodes, %d edges", schema, table, len(g.Nodes), len(g.Edges))

	writeJSON(w, http.StatusOK, layout.BuildFigure(g, a.seed))
}

func main() {
	// flags
	cfgPath := flag.String("config", "", "path to optional config YAML")
	envPath := flag.String("env", ".env", "path to optional .env file")
	port := flag.Int("port", 0, fmt.Sprintf("http port (overrides config, default %d)", defaultPort))
	timeout := flag.Int("timeout", 10, "db connect timeout seconds")
	webdir := flag.String("web", filepath.Join(".", "web"), "web ui directory")
	seed := flag.Int64("seed", layout.DefaultSeed, "layout random seed")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()
	logger.SetVerbose(*verbose)

	// attempt to load config file (optional), then env overrides
	var appCfg config.AppConfig
	if *cfgPath != "" {
		logger.Info("config file %s", *cfgPath)
		if c, err := config.LoadFile(*cfgPath); err == nil {
			appCfg = c
		} else {
			logger.Error("error reading config file: %v", err)
		}
	}
	appCfg = config.LoadEnv(appCfg, *envPath)

	dsn, err := config.BuildDSN(appCfg.Database)
	if err != nil {
		logger.Fatal("%v", err)
	}
	dbConn, err := db.Connect(dsn, *timeout)
	if err != nil {
		logger.Fatal("connect to %s: %v", appCfg.Database.Host, err)
	}
	defer dbConn.Close()
	logger.Info("connected to mysql at %s", appCfg.Database.Host)

	a := &app{db: dbConn, seed: *seed}

	// static web
	http.Handle("/", http.FileServer(http.Dir(*webdir)))
	http.HandleFunc("/api/schemas", a.handleSchemas)
	http.HandleFunc("/api/tables", a.handleTables)
	http.HandleFunc("/api/graph", a.handleGraph)

	if *port == 0 {
		*port = appCfg.Server.Port
	}
	if *port == 0 {
		*port = defaultPort
	}
	addr := fmt.Sprintf(":%d", *port)
	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("listening on %s, serving %s", addr, *webdir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("%v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown: %v", err)
	}
}
