package similarity

// Ratio returns a Gestalt (Ratcliff/Obershelp) similarity ratio between 0.0
// and 1.0: twice the number of matching characters divided by the total
// length of both strings. Matching characters are counted by repeatedly
// taking the longest common substring and recursing on the pieces to either
// side of it.
func Ratio(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}
	matched := matchingChars([]byte(s1), []byte(s2))
	return 2.0 * float64(matched) / float64(len(s1)+len(s2))
}

func matchingChars(a, b []byte) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}

	total := size
	total += matchingChars(a[:ai], b[:bi])
	total += matchingChars(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonSubstring returns the start offsets and length of the longest
// common substring, preferring the earliest occurrence on ties.
func longestCommonSubstring(a, b []byte) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0

	// lengths[j] holds the match length ending at a[i-1], b[j-1].
	lengths := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		prev := 0
		for j := 1; j <= len(b); j++ {
			cur := lengths[j]
			if a[i-1] == b[j-1] {
				lengths[j] = prev + 1
				if lengths[j] > bestSize {
					bestSize = lengths[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				lengths[j] = 0
			}
			prev = cur
		}
	}

	return bestA, bestB, bestSize
}
