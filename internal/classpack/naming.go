package classpack

import (
	"crypto/sha256"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// nameAlphabet is the ordered symbol set for generated names
const nameAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSequentialName maps index to a shortest-first identifier using
// bijective base-36: 0→a, 35→9, 36→aa, 71→a9, 72→ba.
func GenerateSequentialName(index int, prefix string) string {
	if index < 0 {
		index = 0
	}

	base := len(nameAlphabet)
	var buf []byte
	for n := index; n >= 0; n = n/base - 1 {
		buf = append(buf, nameAlphabet[n%base])
	}

	// Digits were produced least significant first
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return prefix + string(buf)
}

// GenerateSequentialNames returns the first n sequential names
func GenerateSequentialNames(n int, prefix string) []string {
	if n <= 0 {
		return []string{}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = GenerateSequentialName(i, prefix)
	}
	return names
}

// RequiredNameLength returns the length of the longest name (without prefix)
// needed to allocate n sequential names.
func RequiredNameLength(n int) int {
	if n <= 0 {
		return 0
	}
	base := len(nameAlphabet)
	length, capacity, tier := 1, base, base
	for capacity < n {
		// The next tier alone exceeds any int n
		if tier > (math.MaxInt-capacity)/base {
			return length + 1
		}
		tier *= base
		capacity += tier
		length++
	}
	return length
}

// GenerateHashName derives a fixed-length content-hash identifier.
// Stable across runs for the same input, prefix and length; not length-optimal.
func GenerateHashName(input, prefix string, length int) string {
	sum := sha256.Sum256([]byte(prefix + input))
	encoded := new(big.Int).SetBytes(sum[:]).Text(len(nameAlphabet))

	// Pad so short encodings still fill the requested length
	if len(encoded) < length {
		encoded = strings.Repeat("0", length-len(encoded)) + encoded
	}
	if length > 0 && length < len(encoded) {
		encoded = encoded[:length]
	}
	return prefix + encoded
}

// NamedPattern pairs an assigned name with the identity it stands for
type NamedPattern struct {
	Name string
	Key  string // Normalized key
}

// ResolveCollisions walks entries in order and suffixes 1, 2, 3... onto any
// name already claimed by a different key. A key reusing its own name is
// left untouched.
func ResolveCollisions(entries []NamedPattern) []NamedPattern {
	claimed := make(map[string]string, len(entries))
	resolved := make([]NamedPattern, len(entries))

	for i, entry := range entries {
		name := entry.Name
		if owner, taken := claimed[name]; taken && owner != entry.Key {
			for n := 1; ; n++ {
				candidate := fmt.Sprintf("%s%d", entry.Name, n)
				if owner, taken := claimed[candidate]; !taken || owner == entry.Key {
					name = candidate
					break
				}
			}
		}
		claimed[name] = entry.Key
		resolved[i] = NamedPattern{Name: name, Key: entry.Key}
	}

	return resolved
}

// NameAllocator hands out names for a single detection run
type NameAllocator struct {
	mode     NamingMode
	prefix   string
	length   int
	next     int
	reserved map[string]bool   // Tokens already present in the scanned output
	claimed  map[string]string // Name -> key
}

// NewNameAllocator creates an allocator that never returns a reserved name
func NewNameAllocator(mode NamingMode, prefix string, hashLength int, reserved map[string]bool) *NameAllocator {
	if mode == "" {
		mode = NamingSequential
	}
	return &NameAllocator{
		mode:     mode,
		prefix:   prefix,
		length:   hashLength,
		reserved: reserved,
		claimed:  make(map[string]string),
	}
}

// Next returns the name for key
func (a *NameAllocator) Next(key string) string {
	if a.mode == NamingHash {
		return a.claim(GenerateHashName(key, a.prefix, a.length), key)
	}

	for {
		name := GenerateSequentialName(a.next, a.prefix)
		a.next++
		if !a.reserved[name] {
			a.claimed[name] = key
			return name
		}
	}
}

// PlaceholderLength is the conservative name length used before final
// assignment.
func (a *NameAllocator) PlaceholderLength() int {
	if a.mode == NamingHash {
		return len(a.prefix) + a.length
	}
	return len(a.prefix) + 1
}

// claim registers name for key, suffixing on collision
func (a *NameAllocator) claim(name, key string) string {
	base := name
	for n := 1; ; n++ {
		owner, taken := a.claimed[name]
		if (!taken || owner == key) && !a.reserved[name] {
			break
		}
		name = fmt.Sprintf("%s%d", base, n)
	}
	a.claimed[name] = key
	return name
}
