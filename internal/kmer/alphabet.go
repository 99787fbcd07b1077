// internal/kmer/alphabet.go
package kmer

// DefaultAlphabet is the nucleotide alphabet used for feature columns.
const DefaultAlphabet = "ACGT"

// Enumerate returns every string of length k over alphabet, in Cartesian-product
// order with the last character varying fastest ("AA","AC",...,"TT" for k=2).
// The returned order defines the feature columns, so training and inference
// must enumerate with the same k and alphabet.
//
// k must be >= 1.
func Enumerate(k int, alphabet string) []string {
	if k < 1 {
		panic("kmer: k must be >= 1")
	}
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	n := 1
	for i := 0; i < k; i++ {
		n *= len(alphabet)
	}
	out := make([]string, n)
	buf := make([]byte, k)
	for i := 0; i < n; i++ {
		x := i
		for pos := k - 1; pos >= 0; pos-- {
			buf[pos] = alphabet[x%len(alphabet)]
			x /= len(alphabet)
		}
		out[i] = string(buf)
	}
	return out
}
