package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"
)

func Handler(status *Status, logs *LogBuffer) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, status.Snapshot(time.Now().UTC()))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		ok, reason := status.health()
		resp := struct {
			OK     bool   `json:"ok"`
			Reason string `json:"reason,omitempty"`
		}{OK: ok, Reason: reason}
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})

	if logs != nil {
		mux.Handle("/api/logs", logs.Handler())
	}

	mux.HandleFunc("/api/about", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, about())
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if !allowGet(w, r) {
			return
		}
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		snap := status.Snapshot(time.Now().UTC())
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>ubloxd</title></head><body>")
		_, _ = fmt.Fprintf(w, "<h1>ubloxd</h1>")
		_, _ = fmt.Fprintf(w, "<p>See <a href=\"/api/status\">/api/status</a>.</p>")
		_, _ = fmt.Fprintf(w, "<pre>mode=%s\nvalid=%t\nfix_type=%s\nsatellites=%d\nlat=%.7f lon=%.7f\nreceiver=%s\nsent_total=%d</pre>",
			html.EscapeString(snap.Mode), snap.GPS.Valid, html.EscapeString(snap.GPS.FixType), snap.GPS.Satellites,
			snap.GPS.LatDeg, snap.GPS.LonDeg, html.EscapeString(snap.GPS.Receiver), snap.SentTotal,
		)
		_, _ = fmt.Fprintf(w, "</body></html>")
	})

	return mux
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

type AboutResponse struct {
	Service    string `json:"service"`
	NowUTC     string `json:"now_utc"`
	GoVersion  string `json:"go_version"`
	ModulePath string `json:"module_path,omitempty"`
	Version    string `json:"version,omitempty"`
	Commit     string `json:"commit,omitempty"`
	Dirty      bool   `json:"dirty,omitempty"`
}

func about() AboutResponse {
	resp := AboutResponse{
		Service:   "ubloxd",
		NowUTC:    time.Now().UTC().Format(time.RFC3339Nano),
		GoVersion: runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		resp.ModulePath = bi.Main.Path
		resp.Version = bi.Main.Version
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				resp.Commit = s.Value
			case "vcs.modified":
				resp.Dirty = s.Value == "true"
			}
		}
	}
	return resp
}

// Serve runs the status server until ctx is cancelled.
func Serve(ctx context.Context, listenAddr string, status *Status, logs *LogBuffer) error {
	if status == nil {
		status = NewStatus(nil, nil)
	}

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           Handler(status, logs),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MiB
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
