package models

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account. Admins sign in with username/password,
// regular users sign in with an emailed OTP code (no password stored).
type User struct {
	BaseModel

	Username string `json:"username" gorm:"not null;uniqueIndex"`
	Email    string `json:"email" gorm:"not null;uniqueIndex"`

	// Password is a bcrypt hash; empty for OTP-only accounts.
	Password string `json:"-"`

	Role       string `json:"role" gorm:"size:10;default:'user';index"`
	IsVerified bool   `json:"is_verified" gorm:"default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
