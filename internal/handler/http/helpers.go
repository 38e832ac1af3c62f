package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/fieldforce-backend-go/internal/handler/http/response"
)

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "INVALID_BODY", "Invalid request body", nil)
		return false
	}
	return true
}

// queryPtr returns a pointer to the query value, or nil when it is absent.
func queryPtr(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func setAttachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
}
