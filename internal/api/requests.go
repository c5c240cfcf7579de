package api

type registerRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	DOB      string `json:"dob" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type sendMessageRequest struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
}

type editMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type notifyRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type postRequest struct {
	Caption string `json:"caption" validate:"required"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}
