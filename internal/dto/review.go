package dto

// CreateReviewRequest is the payload for reviewing a book.
type CreateReviewRequest struct {
	ReviewText string   `json:"review_text" validate:"required,max=5000"`
	Rating     *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

// UpdateReviewRequest patches a review.
type UpdateReviewRequest struct {
	ReviewText *string  `json:"review_text" validate:"omitempty,min=1,max=5000"`
	Rating     *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}
