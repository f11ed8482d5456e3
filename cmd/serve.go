package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/feedback"
	"github.com/jstiltner/document-understanding/internal/model"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/documents", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Path string `json:"path"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Path == "" {
				writeError(w, http.StatusBadRequest, "path is required")
				return
			}

			cat, err := e.Catalog.Load(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}

			// Processing runs detached from the request; poll the
			// document for its terminal status.
			go func() {
				if _, err := e.Pipeline.Process(ctx, body.Path, cat); err != nil {
					zap.L().Error("async processing failed", zap.String("path", body.Path), zap.Error(err))
				}
			}()

			writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "path": body.Path})
		})

		r.Get("/documents/{id}", func(w http.ResponseWriter, req *http.Request) {
			doc, err := e.Store.GetDocument(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			if doc == nil {
				writeError(w, http.StatusNotFound, "document not found")
				return
			}
			writeJSON(w, http.StatusOK, doc)
		})

		r.Get("/documents/{id}/audit", func(w http.ResponseWriter, req *http.Request) {
			entries, err := e.Store.ListAudit(req.Context(), chi.URLParam(req, "id"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, entries)
		})

		r.Get("/fields", func(w http.ResponseWriter, req *http.Request) {
			fields, err := e.Catalog.ActiveFields(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, fields)
		})

		r.Post("/fields", func(w http.ResponseWriter, req *http.Request) {
			var def model.FieldDefinition
			if err := json.NewDecoder(req.Body).Decode(&def); err != nil {
				writeError(w, http.StatusBadRequest, "invalid field definition")
				return
			}
			if err := e.Catalog.Create(req.Context(), def); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusCreated, def)
		})

		r.Delete("/fields/{name}", func(w http.ResponseWriter, req *http.Request) {
			if err := e.Catalog.Deactivate(req.Context(), chi.URLParam(req, "name")); err != nil {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
		})

		r.Post("/feedback", func(w http.ResponseWriter, req *http.Request) {
			var body feedback.RecordRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid feedback payload")
				return
			}
			fb, err := e.Recorder.Record(req.Context(), body)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusCreated, fb)
		})

		r.Get("/feedback/summary", func(w http.ResponseWriter, req *http.Request) {
			summary, err := e.Recorder.Summary(req.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, summary)
		})

		r.Get("/performance", func(w http.ResponseWriter, req *http.Request) {
			perfs, err := e.Recorder.Performance(req.Context(), req.URL.Query().Get("model_version"))
			if err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, perfs)
		})

		r.Get("/providers", func(w http.ResponseWriter, req *http.Request) {
			out := make(map[string][]string)
			for _, p := range e.Registry.Providers() {
				out[p] = e.Registry.Models(p)
			}
			writeJSON(w, http.StatusOK, out)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go shutdownOnDone(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownOnDone waits for ctx cancellation and then drains in-flight
// requests. ctx is already canceled at that point, so the drain gets a
// fresh deadline of its own.
func shutdownOnDone(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
