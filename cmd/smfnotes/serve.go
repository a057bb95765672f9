package main

import (
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/Garik-/smfnotes/pkg/midi"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

var (
	addrFlag    string
	maxBodyFlag int64
)

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", ":8080", "Listen address")
	serveCmd.Flags().Int64Var(&maxBodyFlag, "max-body", 8<<20, "Largest accepted file in bytes")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the decoder over HTTP",
	Long:  `POST a standard MIDI file to /decode and get its tracks back as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := &http.Server{
			Addr:              addrFlag,
			Handler:           newRouter(maxBodyFlag),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveLog.Info("listening", zap.String("addr", addrFlag))
		return srv.ListenAndServe()
	},
}

type errorResponse struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind,omitempty"`
}

func newRouter(maxBody int64) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(withRequestID)
	router.HandleFunc("/decode", handleDecode(maxBody)).Methods(http.MethodPost)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		serveLog.Debug("request",
			zap.String("id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func handleDecode(maxBody int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := ioutil.ReadAll(io.LimitReader(r.Body, maxBody+1))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if int64(len(body)) > maxBody {
			writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("body exceeds %d bytes", maxBody))
			return
		}

		f, err := midi.Decode(body)
		if err != nil {
			serveLog.Info("decode failed", zap.String("id", w.Header().Get(requestIDHeader)), zap.Error(err))
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(f); err != nil {
			serveLog.Error("encode response", zap.Error(err))
		}
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Detail: err.Error(), Kind: errorKind(err)})
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, midi.ErrMalformedFile):
		return "malformed_file"
	case errors.Is(err, midi.ErrUnsupportedDivision):
		return "unsupported_division"
	case errors.Is(err, midi.ErrUnsupportedEvent):
		return "unsupported_event"
	}
	return ""
}
