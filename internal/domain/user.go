package domain

// User is an externally owned identity reference. The core reads it for
// scoping and notification addressing but never creates or mutates it.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}
