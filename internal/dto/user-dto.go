package dto

type CreateUserDTO struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"fullName" validate:"required,min=2,max=255"`
	Role     string `json:"role" validate:"omitempty,oneof=admin technician user"`
}
