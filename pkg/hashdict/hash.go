// Package hashdict computes the 32-bit name hashes used by the property
// tree format and maintains a persistent dictionary mapping hashes back to
// the human-readable names they were derived from. Field names, class
// names and entry paths all appear on the wire only as hashes; without a
// dictionary an inspected tree is a wall of hex.
package hashdict

const (
	fnvOffset uint32 = 0x811c9dc5
	fnvPrime  uint32 = 0x01000193
)

// Hash returns the FNV-1a hash of the ASCII-lowercased name. The format
// hashes every name lowercased, which is also why map string keys compare
// case-insensitively.
func Hash(name string) uint32 {
	h := fnvOffset
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		h ^= uint32(c)
		h *= fnvPrime
	}
	return h
}
