// Package model contains domain models passed between layers.
package model

// User is a managed user record.
type User struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Age  float64 `json:"age"`
}

// Patch carries the fields supplied to an update. Nil fields are left as is.
type Patch struct {
	Name *string  `json:"name,omitempty"`
	Age  *float64 `json:"age,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Age == nil
}

// Apply returns u with the supplied patch fields merged in. The id never changes.
func (p Patch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		u.Age = *p.Age
	}
	return u
}
