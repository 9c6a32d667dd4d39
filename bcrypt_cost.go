//go:build !race

package credentials

// Work factor 10 keeps a login's hash comparison in the tens of milliseconds
// while staying out of precomputed-table reach.
func passwordHashCost() int {
	return 10
}
