package prime

// IsPrime uses trial division by 2, 3 and numbers of the form 6k±1
func IsPrime(n uint64) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := uint64(5); i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// NextGreater returns the smallest prime strictly greater than n
func NextGreater(n uint64) uint64 {
	if n < 2 {
		return 2
	}
	// next odd number above n
	c := n + 1
	if c%2 == 0 {
		c++
	}
	for !IsPrime(c) {
		c += 2
	}
	return c
}

// NextSmaller returns the largest prime strictly smaller than n.
// ok is false if there is none.
func NextSmaller(n uint64) (p uint64, ok bool) {
	if n <= 2 {
		return 0, false
	}
	if n == 3 {
		return 2, true
	}
	// previous odd number below n
	c := n - 1
	if c%2 == 0 {
		c--
	}
	for ; c > 2; c -= 2 {
		if IsPrime(c) {
			return c, true
		}
	}
	return 0, false
}
