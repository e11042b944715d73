package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The json tags are omitted here because these structs are used
// internally by the repository and service layers; handlers define separate
// response types so that PasswordHash can never be serialised.
//
// Fields:
//
//	ID           – primary key, assigned by the store and never changed.
//	Username     – unique user name, stored exactly as given.
//	Email        – unique email address, stored exactly as given.
//	PasswordHash – bcrypt hash of the password.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
