package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"medicart-be/internal/shop"
	"medicart-be/internal/utils"
)

type loginRequest struct {
	ShopName string `json:"shopName"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	ShopName  string    `json:"shopName"`
}

// LoginHandler exchanges shop credentials for a token. The token is also set
// as an HttpOnly cookie for browser clients.
func LoginHandler(shops shop.Service, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		res, err := shops.Login(r.Context(), req.ShopName, req.Password)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "access_token",
			Value:    res.Token,
			Path:     "/",
			Expires:  res.ExpiresAt,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		utils.WriteJSON(w, http.StatusOK, loginResponse{
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
			ShopName:  res.Shop.Name,
		})
	}
}
