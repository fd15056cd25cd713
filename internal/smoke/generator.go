package smoke

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Generated ages fall in [minAge, minAge+ageRange).
const (
	minAge   = 18
	ageRange = 60
	// namePrefix marks records created by a smoke run.
	namePrefix = "smoke-"
)

// generateUsers returns n users with unique names and random ages.
func generateUsers(n int) []User {
	users := make([]User, n)
	for i := range users {
		users[i] = User{
			Name: namePrefix + uuid.NewString()[:8],
			Age:  float64(minAge + randomInt(ageRange)),
		}
	}
	return users
}

// randomInt returns a value in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}
