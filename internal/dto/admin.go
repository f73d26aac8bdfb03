package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type UploadImageRequest struct {
	File     string `json:"file" validate:"required"`
	FileName string `json:"fileName" validate:"required,max=255"`
}

type UploadImageResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Path    string `json:"path"`
}

type ProductInput struct {
	Name           string   `json:"name" validate:"required,max=255"`
	Slug           string   `json:"slug" validate:"required,max=191"`
	Description    *string  `json:"description"`
	BasePrice      float64  `json:"base_price" validate:"gte=0"`
	CompareAtPrice *float64 `json:"compare_at_price" validate:"omitempty,gte=0"`
	Brand          *string  `json:"brand" validate:"omitempty,max=120"`
	SKU            string   `json:"sku" validate:"required,max=64"`
	StockQuantity  int      `json:"stock_quantity" validate:"gte=0"`
	IsPublished    *bool    `json:"is_published"`
	CategoryIDs    []string `json:"category_ids" validate:"omitempty,dive,required"`
}

type ProductMutationResponse struct {
	Success bool             `json:"success"`
	Product ProductDetailDTO `json:"product"`
}

type AddProductImageRequest struct {
	ImageURL  string `json:"image_url" validate:"required,max=1024"`
	IsPrimary bool   `json:"is_primary"`
}

type AddProductImageResponse struct {
	Success bool            `json:"success"`
	Image   ProductImageDTO `json:"image"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
