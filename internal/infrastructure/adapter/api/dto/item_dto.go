package dto

import (
	"time"

	"github.com/amirhossein-jamali/lab-lending/internal/domain/entity"
)

// CreateItemRequest represents the API request for registering a catalog item
type CreateItemRequest struct {
	Barcode  string `json:"barcode" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// ItemResponse represents a catalog item in API responses
type ItemResponse struct {
	Barcode   string    `json:"barcode"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailabilityResponse reports the computed availability for one item
type AvailabilityResponse struct {
	ItemBarcode string `json:"itemBarcode"`
	ItemName    string `json:"itemName"`
	Total       int    `json:"total"`
	Reserved    int    `json:"reserved"`
	Available   int    `json:"available"`
}

// ToItemResponse maps a catalog item to the API representation
func ToItemResponse(item *entity.Item) ItemResponse {
	return ItemResponse{
		Barcode:   item.Barcode,
		Name:      item.Name,
		Category:  item.Category,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// ToAvailabilityResponse maps a computed availability to the API representation
func ToAvailabilityResponse(av *entity.Availability) AvailabilityResponse {
	return AvailabilityResponse{
		ItemBarcode: av.ItemBarcode,
		ItemName:    av.ItemName,
		Total:       av.Total,
		Reserved:    av.Reserved,
		Available:   av.Available(),
	}
}
