package handler

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Phone    string `json:"phone"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type checkEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type registerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type accountView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type loginResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	User    accountView `json:"user"`
}

type checkEmailResponse struct {
	Exists  bool   `json:"exists"`
	Message string `json:"message"`
}

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Message string `json:"message"`
}
