package smoke

import (
	"fmt"
)

// Seeds is the collection the server holds after startup and after a reset.
var Seeds = []User{
	{Name: "John", Age: 25},
	{Name: "Jane", Age: 30},
	{Name: "Bob", Age: 35},
	{Name: "Alice", Age: 28},
}

// verifySeeds checks that users is exactly the seed collection, in order,
// with non-empty ids.
func verifySeeds(users []User) error {
	if len(users) != len(Seeds) {
		return fmt.Errorf("%w: expected %d seed users, got %d", ErrVerification, len(Seeds), len(users))
	}
	for i, want := range Seeds {
		got := users[i]
		if got.ID == "" {
			return fmt.Errorf("%w: seed %d has an empty id", ErrVerification, i)
		}
		if got.Name != want.Name || got.Age != want.Age {
			return fmt.Errorf("%w: seed %d is %s/%v, want %s/%v", ErrVerification, i, got.Name, got.Age, want.Name, want.Age)
		}
	}
	return nil
}

// verifyUniqueIDs checks that no two listed records share an id.
func verifyUniqueIDs(users []User) error {
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrVerification, u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}

// verifyCreated checks that every created record is listed with the
// name and age it was created with.
func verifyCreated(listed, created []User) error {
	byID := make(map[string]User, len(listed))
	for _, u := range listed {
		byID[u.ID] = u
	}
	for _, want := range created {
		got, ok := byID[want.ID]
		if !ok {
			return fmt.Errorf("%w: created user %s (%s) not listed", ErrVerification, want.Name, want.ID)
		}
		if got.Name != want.Name || got.Age != want.Age {
			return fmt.Errorf("%w: user %s is %s/%v, want %s/%v", ErrVerification, want.ID, got.Name, got.Age, want.Name, want.Age)
		}
	}
	return nil
}
