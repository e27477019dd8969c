package dto

type SignupRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Phone    string `json:"phone"    validate:"required,min=7,max=20"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}
