package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/boosteam/boosteam-api/internal/shared"
)

// ParamInt64 parses a positive integer URL parameter.
func ParamInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", shared.ErrValidation, name)
	}
	return id, nil
}
