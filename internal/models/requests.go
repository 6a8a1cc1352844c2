package models

// RegisterUserRequest is the body of POST /auth/register.
type RegisterUserRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=50,strongpassword"`
	FirstName string  `json:"first_name" validate:"required,min=2"`
	LastName  string  `json:"last_name" validate:"required,min=2"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,numeric"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RecoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest carries the reset token issued by RecoverPassword.
type ChangePasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=50,strongpassword"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// UpdateUserRequest only touches the fields present in the body.
type UpdateUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=2"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=2"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,numeric"`
}

// AuthResponse is returned by every successful login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Slug        string `json:"slug,omitempty"`
	PhoneNumber string `json:"phone_number" validate:"required,numeric"`
	ImageURL    string `json:"image_url" validate:"required,url"`
	Description string `json:"description,omitempty"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	PhoneNumber *string `json:"phone_number,omitempty" validate:"omitempty,numeric"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Description *string `json:"description,omitempty"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	StoreSlug   string `json:"store_slug" validate:"required"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
}

type CreateProductRequest struct {
	StoreSlug   string        `json:"store_slug" validate:"required"`
	Name        string        `json:"name" validate:"required,min=1"`
	Sku         string        `json:"sku" validate:"required,min=6,max=20"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price" validate:"gte=0"`
	Status      ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=in_stock out_of_stock low_stock"`
	Stock       int           `json:"stock" validate:"gte=0"`
	ImagesURLs  []string      `json:"images_urls,omitempty" validate:"omitempty,dive,url"`
}

// UpdateProductRequest: nil fields keep their stored value.
type UpdateProductRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	Sku         *string        `json:"sku,omitempty" validate:"omitempty,min=6,max=20"`
	Description *string        `json:"description,omitempty"`
	Price       *float64       `json:"price,omitempty" validate:"omitempty,gte=0"`
	Status      *ProductStatus `json:"status,omitempty" validate:"omitempty,oneof=in_stock out_of_stock low_stock"`
	Stock       *int           `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImagesURLs  []string       `json:"images_urls,omitempty" validate:"omitempty,dive,url"`
}

type LinkCategoryProductRequest struct {
	CategoryID uint `json:"categoryId" validate:"required,gt=0"`
	ProductID  uint `json:"productId" validate:"required,gt=0"`
}

type RelinkCategoryProductRequest struct {
	CurrentCategory uint `json:"currentCategory" validate:"required,gt=0"`
	NewCategory     uint `json:"newCategory" validate:"required,gt=0"`
}
