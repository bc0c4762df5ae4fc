package handler

type updateUserRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     *string `json:"role,omitempty"     validate:"omitempty,oneof=admin user"`
}

type deleteUserResponse struct {
	Message string `json:"message"`
}
