package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	present, err := decodeOptionalJSON(w, r, dst)
	if err != nil {
		return err
	}
	if !present {
		return errors.NewBadRequestError("request body is empty")
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints where the body may be
// omitted; present is false for an empty body.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) (present bool, err error) {
	if r.Body == nil {
		return false, nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return false, nil
		}
		return false, errors.NewBadRequestError(fmt.Sprintf("invalid request body: %v", err))
	}
	if dec.More() {
		return false, errors.NewBadRequestError("request body must hold a single JSON object")
	}
	return true, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.NewBadRequestError(fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return v, nil
}

func userParam(r *http.Request) (int64, error) {
	return int64Param(r, "userID")
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.NewBadRequestError(fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return v, nil
}
