package repository

// Seed describes a record loaded at construction and restored by Reset.
type Seed struct {
	Name string
	Age  float64
}

// DefaultSeed is the collection a fresh store starts with.
func DefaultSeed() []Seed {
	return []Seed{
		{Name: "John", Age: 25},
		{Name: "Jane", Age: 30},
		{Name: "Bob", Age: 35},
		{Name: "Alice", Age: 28},
	}
}
