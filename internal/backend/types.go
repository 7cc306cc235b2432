package backend

// Student is the client-visible subset of the backend student entity.
type Student struct {
	StudentID   int64  `json:"student_id"`
	ClerkUserID string `json:"clerk_user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Age         int    `json:"age"`
	Role        string `json:"role"`
}

type Admin struct {
	AdminID     int64  `json:"admin_id"`
	ClerkUserID string `json:"clerk_user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
}

// NewStudent is the create payload. The password field is vestigial:
// credential verification is handled by the identity provider, but the
// backend schema still requires a value.
type NewStudent struct {
	ClerkUserID string `json:"clerk_user_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Age         int    `json:"age"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

type linkRequest struct {
	Email       string `json:"email"`
	ClerkUserID string `json:"clerkUserId"`
}
