package staff

import "errors"

var (
	ErrStaffNotFound          = errors.New("staff profile not found")
	ErrStaffAlreadyExists     = errors.New("staff profile already exists")
	ErrEmailAlreadyRegistered = errors.New("email already registered with the identity provider")
	ErrProfileWriteFailed     = errors.New("account created but the staff profile could not be written")
	ErrConfirmationRequired   = errors.New("action requires confirmation")
	ErrCannotDeleteSelf       = errors.New("admins cannot delete their own profile")
)
