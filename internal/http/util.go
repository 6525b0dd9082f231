package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/smspocoredondo/DashUPA/internal/config"
	"github.com/smspocoredondo/DashUPA/internal/filter"
	"github.com/smspocoredondo/DashUPA/internal/normalizer"
	"github.com/smspocoredondo/DashUPA/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// statusFor 业务错误 -> HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, config.ErrUnknownProfile),
		errors.Is(err, filter.ErrUnknownColumn),
		errors.Is(err, filter.ErrInvalidRange),
		errors.Is(err, normalizer.ErrUnknownSchema),
		errors.Is(err, normalizer.ErrUnsupportedFile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
