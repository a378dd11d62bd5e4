package handler

import (
	"net/http"

	"medicart-be/internal/metrics"
	"medicart-be/internal/utils"
)

func HealthHandler(reg *metrics.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]interface{}{"status": "OK"}
		if reg != nil {
			for k, v := range reg.Snapshot() {
				body[k] = v
			}
		}
		utils.WriteJSON(w, http.StatusOK, body)
	}
}
