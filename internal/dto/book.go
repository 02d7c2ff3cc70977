package dto

// CreateBookRequest is the payload for adding a book.
type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Author        string `json:"author" validate:"required,max=255"`
	Publisher     string `json:"publisher" validate:"required,max=255"`
	PageCount     int    `json:"page_count" validate:"required,gt=0"`
	Language      string `json:"language" validate:"required,max=32"`
	PublishedDate string `json:"published_date" validate:"required,datetime=2006-01-02"`
}

// UpdateBookRequest patches a book; omitted fields stay unchanged.
type UpdateBookRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=255"`
	Author        *string `json:"author" validate:"omitempty,min=1,max=255"`
	Publisher     *string `json:"publisher" validate:"omitempty,min=1,max=255"`
	PageCount     *int    `json:"page_count" validate:"omitempty,gt=0"`
	Language      *string `json:"language" validate:"omitempty,min=1,max=32"`
	PublishedDate *string `json:"published_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListBooksQuery captures paging and search for book listings.
type ListBooksQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"q"`
}
