package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"llm-tasks/internal/app"
	"llm-tasks/internal/assistant"
	"llm-tasks/internal/httputil"
)

var payloadValidator = validator.New()

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	r := newRouter(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	server := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		deps.Log.Info("shutting down")
		return server.Shutdown(context.Background())
	})
	if err := g.Wait(); err != nil {
		deps.Log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log)
	r.Post("/api/ocr", ocrHandler(deps))
	r.Post("/api/math", mathHandler(deps))
	r.Post("/api/code", codeHandler(deps))
	r.Post("/api/chat", chatHandler(deps))
	r.Post("/api/transcriptions", transcriptionHandler(deps))
	r.Post("/api/speech", speechHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	return r
}

// decodeAndValidate reads a JSON request body into dst and runs its
// validation tags. A false return means the response is already written.
func decodeAndValidate(deps app.Deps, w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httputil.Fail(deps.Log, w, "invalid JSON body", err, http.StatusBadRequest)
		return false
	}
	if err := payloadValidator.Struct(dst); err != nil {
		httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
		return false
	}
	return true
}

type ocrRequest struct {
	Image string `json:"image" validate:"required"`
}

func ocrHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ocrRequest
		if !decodeAndValidate(deps, w, r, &req) {
			return
		}
		text, err := deps.OCR.ExtractBase64(r.Context(), req.Image)
		if err != nil {
			httputil.FailClassified(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
	}
}

type mathRequest struct {
	Problem string `json:"problem" validate:"required"`
}

func mathHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req mathRequest
		if !decodeAndValidate(deps, w, r, &req) {
			return
		}
		solution, err := deps.Math.Solve(r.Context(), req.Problem)
		if err != nil {
			httputil.FailClassified(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"solution": solution})
	}
}

type codeRequest struct {
	Instruction string `json:"instruction" validate:"required"`
	Code        string `json:"code"`
}

func codeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeRequest
		if !decodeAndValidate(deps, w, r, &req) {
			return
		}
		answer, err := deps.Programming.Assist(r.Context(), req.Instruction, req.Code)
		if err != nil {
			httputil.FailClassified(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}

type chatRequest struct {
	Message string              `json:"message" validate:"required"`
	History []assistant.Message `json:"history"`
}

func chatHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if !decodeAndValidate(deps, w, r, &req) {
			return
		}
		reply, err := deps.Chat.Send(r.Context(), req.History, req.Message)
		if err != nil {
			httputil.FailClassified(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
	}
}

func transcriptionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		text, err := deps.Speech.Transcribe(r.Context(), header.Filename, header.Size, file)
		if err != nil {
			httputil.FailClassified(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"text": text})
	}
}

type speechRequest struct {
	Text   string `json:"text" validate:"required"`
	Voice  string `json:"voice"`
	Format string `json:"format"`
}

// formatContentTypes maps synthesis output formats to response types.
var formatContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"opus": "audio/opus",
	"aac":  "audio/aac",
	"flac": "audio/flac",
}

func speechHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req speechRequest
		if !decodeAndValidate(deps, w, r, &req) {
			return
		}
		audio, err := deps.Speech.Synthesize(r.Context(), req.Text, req.Voice, req.Format)
		if err != nil {
			httputil.FailClassified(deps.Log, w, err)
			return
		}
		format := strings.ToLower(req.Format)
		if format == "" {
			format = "mp3"
		}
		contentType, ok := formatContentTypes[format]
		if !ok {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(audio); err != nil {
			deps.Log.Warn("failed to write audio response", "err", err)
		}
	}
}
