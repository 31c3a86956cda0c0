package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/recommend"
)

// MaxUploadSize caps multipart CV uploads
const MaxUploadSize = 10 << 20

const healthTimeout = 2 * time.Second

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.svc.GetProfile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleJobRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, limit, bestEffort, err := recommendationParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recs, err := s.svc.GetJobRecommendations(r.Context(), userID, limit)
	if bestEffort {
		recs, err = recommend.BestEffort(recs, err)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

func (s *Server) handleLearningRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, limit, bestEffort, err := recommendationParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recs, err := s.svc.GetLearningRecommendations(r.Context(), userID, limit)
	if bestEffort {
		recs, err = recommend.BestEffort(recs, err)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

func (s *Server) handleJobLearningRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, limit, _, err := recommendationParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jobID, err := pathUUID(r, "job_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recs, err := s.svc.GetJobSpecificLearningRecommendations(r.Context(), userID, jobID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

// handleParseCV parses an uploaded CV without storing anything
func (s *Server) handleParseCV(w http.ResponseWriter, r *http.Request) {
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.svc.ParseCV(data, filename))
}

// handleImportCV parses an uploaded CV and merges it into the user's profile
func (s *Server) handleImportCV(w http.ResponseWriter, r *http.Request) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, filename, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.svc.ImportCV(r.Context(), userID, data, filename)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleInvalidateMarket(w http.ResponseWriter, r *http.Request) {
	s.svc.InvalidateMarket(r.Context())
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// readUpload reads the multipart "file" field. A zero-byte file is passed
// through; the parser reports it as an empty document.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", err
		}
		return nil, "", &ErrValidation{Field: "file", Message: "expected a multipart form upload"}
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", &ErrValidation{Field: "file", Message: "file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a valid UUID"}
	}
	return id, nil
}

// recommendationParams reads the user id, ?limit= and ?best_effort=
func recommendationParams(r *http.Request) (uuid.UUID, int, bool, error) {
	userID, err := pathUUID(r, "id")
	if err != nil {
		return uuid.Nil, 0, false, err
	}

	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return uuid.Nil, 0, false, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"}
		}
	}

	bestEffort := false
	if raw := q.Get("best_effort"); raw != "" {
		bestEffort, err = strconv.ParseBool(raw)
		if err != nil {
			return uuid.Nil, 0, false, &ErrValidation{Field: "best_effort", Message: "must be a boolean"}
		}
	}
	return userID, limit, bestEffort, nil
}
