package resp

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSONResponse пишет payload как JSON с указанным статусом
func WriteJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("failed to encode response:", err)
	}
}
