package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"medicart-be/internal/logger"
	"medicart-be/internal/order"
	"medicart-be/internal/upload"
	"medicart-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// multipartMemory is how much of a form is kept in memory before the
// standard library spills parts to disk.
const multipartMemory = 8 << 20

type submitResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type statusRequest struct {
	Status order.Status `json:"status"`
}

type statusResponse struct {
	ID     string       `json:"id"`
	Status order.Status `json:"status"`
}

type lineItemRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type detailsRequest struct {
	Items      []lineItemRequest `json:"items"`
	TotalPrice *decimal.Decimal  `json:"totalPrice"`
}

// SubmitMedicinesHandler accepts the multipart order form.
func SubmitMedicinesHandler(orders order.Service, stager *upload.Stager, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.WriteJSONError(w, "upload too large", http.StatusRequestEntityTooLarge)
				return
			}
			utils.WriteJSONError(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				logger.FromCtx(r.Context()).Warn("failed to clean multipart files", zap.Error(err))
			}
		}()

		headers := r.MultipartForm.File["images"]
		if len(headers) > order.MaxImages {
			writeServiceError(w, r, order.ErrTooManyImages)
			return
		}

		files, err := stager.StageAll(r.Context(), headers)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		images := make([]order.Image, 0, len(files))
		for _, f := range files {
			images = append(images, order.Image{ContentType: f.ContentType, Data: f.Data})
		}

		o, err := orders.Submit(r.Context(), order.SubmitInput{
			PhoneNumber:  r.FormValue("phoneNumber"),
			Days:         r.FormValue("days"),
			CustomerName: r.FormValue("name"),
			Description:  r.FormValue("description"),
			Address:      r.FormValue("address"),
			ShopName:     r.FormValue("shopName"),
			Images:       images,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusCreated, submitResponse{
			ID:      o.ID.String(),
			Message: "Submission saved",
		})
	}
}

// ListMedicinesHandler returns the caller's shop queue, or every order for
// anonymous callers.
func ListMedicinesHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter order.Filter
		if sh, ok := utils.GetShopFromContext(r.Context()); ok {
			filter.ShopName = sh.Name
		}
		listOrders(w, r, orders, filter)
	}
}

func SellerMedicinesHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, ok := utils.GetShopFromContext(r.Context())
		if !ok {
			writeServiceError(w, r, order.ErrUnauthorized)
			return
		}

		name := chi.URLParam(r, "shopName")
		if name != sh.Name {
			utils.WriteJSONError(w, "cannot view another shop's orders", http.StatusForbidden)
			return
		}

		listOrders(w, r, orders, order.Filter{ShopName: name})
	}
}

func CustomerOrdersHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := r.URL.Query().Get("phoneNumber")
		if strings.TrimSpace(phone) == "" {
			writeServiceError(w, r, order.ErrPhoneRequired)
			return
		}
		listOrders(w, r, orders, order.Filter{PhoneNumber: phone})
	}
}

func listOrders(w http.ResponseWriter, r *http.Request, orders order.Service, filter order.Filter) {
	list, err := orders.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.ToResponses(list))
}

// UpdateStatusHandler sets the status given in the body, or toggles it when
// the body is empty.
func UpdateStatusHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<10))
		if err != nil {
			utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		var req statusRequest
		if len(strings.TrimSpace(string(body))) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
				return
			}
		}

		var status order.Status
		if req.Status == "" {
			status, err = orders.ToggleStatus(r.Context(), id)
		} else {
			status, err = orders.SetStatus(r.Context(), id, req.Status)
		}
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, statusResponse{ID: id.String(), Status: status})
	}
}

func UpdateDetailsHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}

		var req detailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
			return
		}

		items := make([]order.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, order.LineItem{Name: it.Name, Price: it.Price})
		}

		o, err := orders.UpdatePricing(r.Context(), id, order.PricingInput{
			Items:      items,
			TotalPrice: req.TotalPrice,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, order.ToDetailsResponse(o))
	}
}

func GetDetailsHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}

		o, err := orders.GetDetails(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, order.ToDetailsResponse(o))
	}
}

func DeleteOrderHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}

		if err := orders.Delete(r.Context(), id); err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, map[string]string{
			"id":      id.String(),
			"message": "Submission deleted",
		})
	}
}

func DeleteAllHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := orders.DeleteAll(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		utils.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": n})
	}
}

// ImageHandler streams one stored image with its recorded content type.
func ImageHandler(orders order.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := orderID(w, r)
		if !ok {
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			utils.WriteJSONError(w, "invalid image index", http.StatusBadRequest)
			return
		}

		img, err := orders.GetImage(r.Context(), id, index)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", img.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Data)
	}
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
