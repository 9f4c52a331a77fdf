package api

import "getunitycodes/internal/model"

// swagger:model api.ListItemRequest
type ListItemRequest struct {
	GameID   int    `json:"game_id" validate:"required,min=1" example:"3"`
	Platform string `json:"platform,omitempty" example:"PC"`
	Version  string `json:"version,omitempty" example:"Deluxe"`
}

// ListResponse 是購物車或願望清單的完整內容
// swagger:model api.ListResponse
type ListResponse struct {
	Message string            `json:"message,omitempty"`
	Items   []model.ListEntry `json:"items"`
	Count   int               `json:"count"`
	Total   string            `json:"total" example:"18.00"`
}
