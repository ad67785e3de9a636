package testutil

// Float64 returns a pointer to the given float64
func Float64(f float64) *float64 {
	return &f
}
