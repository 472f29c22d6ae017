package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasklist/internal/domain"
)

// taskIDParam is the chi route parameter holding the task ID.
const taskIDParam = "task_id"

// getPathID extracts a positive int64 ID from the URL path parameters.
// Anything that is not a positive integer is reported as domain.ErrInvalidID,
// which the error mapping renders as 404.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%w: missing %s", domain.ErrInvalidID, paramName)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed %s", domain.ErrInvalidID, paramName)
	}

	return id, nil
}
