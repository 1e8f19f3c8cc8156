package model

import "slices"

// User is an opaque reference to a person managed by the host application.
// Only the ID is used for identity comparisons.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HasUser reports whether users holds a user with the given ID.
func HasUser(users []User, id string) bool {
	return slices.ContainsFunc(users, func(u User) bool { return u.ID == id })
}
