package model

// UserProfile is the slice of a user record this service needs for notifications.
type UserProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
