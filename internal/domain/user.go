package domain

// Role distinguishes citizens from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User owns a non-negative reward point balance. The balance only moves
// through explicit award and redemption operations.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Points       int    `json:"points"`
	PasswordHash string `json:"-"`
}
