package handler

import (
	"encoding/json"
	"net/http"

	"medicart-be/internal/user"
	"medicart-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type registerRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Name        string `json:"name"`
}

// RegisterHandler creates the customer record or renames the existing one.
func RegisterHandler(users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		u, err := users.Register(r.Context(), req.PhoneNumber, req.Name)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, u)
	}
}

func GetUserHandler(users user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.GetByPhone(r.Context(), chi.URLParam(r, "phoneNumber"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, u)
	}
}
