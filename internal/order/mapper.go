package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type ImageResponse struct {
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type LineItemResponse struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type Response struct {
	ID           string             `json:"id"`
	PhoneNumber  string             `json:"phoneNumber"`
	Days         int                `json:"days"`
	Name         string             `json:"name,omitempty"`
	Description  string             `json:"description,omitempty"`
	Address      string             `json:"address,omitempty"`
	ShopName     string             `json:"shopName,omitempty"`
	Images       []ImageResponse    `json:"images"`
	Items        []LineItemResponse `json:"items"`
	TotalPrice   decimal.Decimal    `json:"totalPrice"`
	Status       Status             `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

type DetailsResponse struct {
	ID         string             `json:"id"`
	Items      []LineItemResponse `json:"items"`
	TotalPrice decimal.Decimal    `json:"totalPrice"`
	Status     Status             `json:"status"`
}

func ToResponse(o *Order) Response {
	images := make([]ImageResponse, 0, len(o.Images))
	for _, img := range o.Images {
		images = append(images, ImageResponse{ContentType: img.ContentType, Data: img.Data})
	}

	return Response{
		ID:          o.ID.String(),
		PhoneNumber: o.PhoneNumber,
		Days:        o.Days,
		Name:        o.CustomerName,
		Description: o.Description,
		Address:     o.Address,
		ShopName:    o.ShopName,
		Images:      images,
		Items:       toItemResponses(o.Items),
		TotalPrice:  o.TotalPrice,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func ToResponses(orders []*Order) []Response {
	out := make([]Response, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToResponse(o))
	}
	return out
}

func ToDetailsResponse(o *Order) DetailsResponse {
	return DetailsResponse{
		ID:         o.ID.String(),
		Items:      toItemResponses(o.Items),
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
	}
}

func toItemResponses(items []LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{Name: it.Name, Price: it.Price})
	}
	return out
}
