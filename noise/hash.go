package noise

// Mix64 is the splitmix64 finalizer.
func Mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Hash2 mixes a seed with a column position.
func Hash2(seed int64, x, z int) uint64 {
	h := Mix64(uint64(seed))
	h = Mix64(h ^ uint64(int64(x)))
	return Mix64(h ^ uint64(int64(z)))
}

// Hash3 mixes a seed with a block position.
func Hash3(seed int64, x, y, z int) uint64 {
	h := Hash2(seed, x, z)
	return Mix64(h ^ uint64(int64(y)))
}

// Roll maps a hash to [0, n). Different salts give independent rolls from
// the same position hash.
func Roll(h uint64, salt uint64, n int) int {
	if n <= 0 {
		return 0
	}
	return int(Mix64(h^salt) % uint64(n))
}
