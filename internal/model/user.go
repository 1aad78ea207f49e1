package model

// User represents a registered account.
//
// PasswordHash holds the bcrypt output and is tagged json:"-" so it can
// never leak into a response, whichever handler serializes the struct.
type User struct {
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	PhotoURL     *string `json:"photo_url"`
	IsAdmin      bool    `json:"is_admin"`
}

// NewUser is the POST /users payload. Password is plaintext here and is
// hashed by the service before it reaches the store.
type NewUser struct {
	Username  string  `json:"username"   validate:"required,max=25"`
	Password  string  `json:"password"   validate:"required,max=72"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Email     string  `json:"email"      validate:"required,email"`
	PhotoURL  *string `json:"photo_url"  validate:"omitnil,url"`
	IsAdmin   *bool   `json:"is_admin"`
}

// UserPatch is the PATCH /users/{username} payload. is_admin is not patchable;
// photo_url may be sent as null to clear it.
type UserPatch struct {
	Password  *string          `json:"password"   validate:"omitnil,min=1,max=72"`
	FirstName *string          `json:"first_name" validate:"omitnil,min=1"`
	LastName  *string          `json:"last_name"  validate:"omitnil,min=1"`
	Email     *string          `json:"email"      validate:"omitnil,email"`
	PhotoURL  Nullable[string] `json:"photo_url"  validate:"omitnil,url"`
}

func (p UserPatch) IsEmpty() bool {
	return p.Password == nil && p.FirstName == nil && p.LastName == nil &&
		p.Email == nil && !p.PhotoURL.Set
}

// Credentials is the POST /login payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
