package common

// WipeByteArray zeroes a sensitive byte slice in place.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
