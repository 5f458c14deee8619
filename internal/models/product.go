package models

import "time"

// Product represents a product in the catalog. The ID is supplied by the
// caller and must be unique across all products. Price is a pointer so a
// zero price is distinguishable from a missing one; only the latter fails
// validation.
type Product struct {
	ID                 string    `json:"id" bson:"id" validate:"required"`
	ProductName        string    `json:"productName" bson:"productName" validate:"required"`
	ProductDescription string    `json:"productDescription" bson:"productDescription" validate:"required"`
	Price              *float64  `json:"price" bson:"price" validate:"required"`
	Category           string    `json:"category" bson:"category" validate:"required"`
	StockQuantity      int       `json:"stockQuantity" bson:"stockQuantity" validate:"gte=0"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductUpdate carries the updatable fields of a product. Nil fields are
// left untouched by an update; supplied fields must still satisfy the
// required-field constraints.
type ProductUpdate struct {
	ProductName        *string  `json:"productName" validate:"omitempty,min=1"`
	ProductDescription *string  `json:"productDescription" validate:"omitempty,min=1"`
	Price              *float64 `json:"price"`
	Category           *string  `json:"category" validate:"omitempty,min=1"`
	StockQuantity      *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
}
