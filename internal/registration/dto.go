package registration

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type ActivateRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=4,numeric"`
}

type ResendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func newUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:     u.ID.String(),
		Email:  u.Email,
		Status: string(u.Status),
	}
}
