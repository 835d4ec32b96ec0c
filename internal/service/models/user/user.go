package user

// User is a read-only snapshot of a user record fetched from the user
// service. It is never persisted, only embedded into order responses.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Fallback returns the placeholder snapshot substituted when the user
// service cannot answer. User display data is not load-bearing, so the
// order flow prefers availability over consistency here.
func Fallback(id int64) *User {
	return &User{
		ID:    id,
		Name:  "Unknown User",
		Email: "Unknown Email",
	}
}
