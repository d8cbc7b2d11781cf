package dto

type RegisterDTO struct {
	FullName string `json:"full_name" form:"full_name" validate:"required,min=1,max=100"`
	Username string `json:"username"  form:"username"  validate:"required,alphanum,min=3,max=20"`
	Email    string `json:"email"     form:"email"     validate:"required,email"`
	Password string `json:"password"  form:"password"  validate:"required,strongpwd"`
}

// AvatarUpload carries the raw image bytes received at registration. The
// service hands them to the media store and keeps only the returned
// {url, key} reference.
type AvatarUpload struct {
	Data        []byte
	ContentType string
}

type LoginDTO struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordDTO struct {
	NewPassword string `json:"new_password" validate:"required,strongpwd"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpwd"`
}
