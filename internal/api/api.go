// Package api exposes the converter and the release file generator over a
// small local HTTP API used by the form UI.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"curlcraft/internal/capture"
	"curlcraft/internal/curlcmd"
	"curlcraft/internal/release"
)

const maxBodyBytes = 4 << 20

// Server holds what the handlers need.
type Server struct {
	Capture  capture.Options
	Render   curlcmd.Options
	Releases *release.Manager
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

type releaseRequest struct {
	ServiceName string `json:"serviceName"`
	Tag         string `json:"tag"`
}

type releaseResponse struct {
	File    release.RecentFile `json:"file"`
	Content string             `json:"content"`
}

// Router returns the routes of the API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/curl", s.handleCurl).Methods(http.MethodPost)
	r.HandleFunc("/release", s.handleRelease).Methods(http.MethodPost)
	r.HandleFunc("/recent", s.handleRecent).Methods(http.MethodGet)
	r.HandleFunc("/recent/{name}", s.handleDeleteRecent).Methods(http.MethodDelete)

	return r
}

func (s *Server) handleCurl(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
		return
	}

	raw, err := capture.Parse(data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON", Problems: []string{"Please check your JSON input."}})
		return
	}

	req, err := capture.Extract(raw, s.Capture)
	if err != nil {
		var verr *capture.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON format", Problems: verr.Problems})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	slog.Debug("Generated cURL", "method", req.Method, "url", req.URL, "variant", req.Variant)
	writeJSON(w, http.StatusOK, curlcmd.Render(req, s.Render))
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var in releaseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON", Problems: []string{err.Error()}})
		return
	}

	f, rf, err := s.Releases.Generate(r.Context(), in.ServiceName, in.Tag)
	if err != nil {
		var ierr *release.InputError
		switch {
		case errors.As(err, &ierr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid input", Problems: ierr.Problems})
		case errors.Is(err, release.ErrDuplicate):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			slog.Error("Failed to generate release file", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusCreated, releaseResponse{File: rf, Content: f.Content})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	files, err := s.Releases.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list recent files", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if files == nil {
		files = []release.RecentFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleDeleteRecent(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	err := s.Releases.Delete(r.Context(), name)
	switch {
	case errors.Is(err, release.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case err != nil:
		slog.Error("Failed to delete recent file", "name", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
