// Package natsort implements case-insensitive natural ordering: embedded
// numeric runs compare by value, so "Chapter 2" sorts before "Chapter 10".
package natsort

import "unicode"

// Less reports whether a orders before b.
func Less(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		ca, cb := ra[i], rb[j]
		if unicode.IsDigit(ca) && unicode.IsDigit(cb) {
			na, ni := numericRun(ra, i)
			nb, nj := numericRun(rb, j)
			if na != nb {
				return na < nb
			}
			i, j = ni, nj
			continue
		}
		la, lb := unicode.ToLower(ca), unicode.ToLower(cb)
		if la != lb {
			return la < lb
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}

// numericRun reads the digit run starting at i, returning its value and the
// index past its end. Values are capped rather than overflowed.
func numericRun(r []rune, i int) (int64, int) {
	var n int64
	for i < len(r) && unicode.IsDigit(r[i]) {
		if n < 1<<50 {
			n = n*10 + int64(r[i]-'0')
		}
		i++
	}
	return n, i
}
