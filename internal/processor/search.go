// internal/processor/search.go
package processor

// firstMatch walks candidates in declared order and returns the result of the
// first one that matches. Later candidates are never evaluated once a match is
// found, which is what makes catalog and pattern order significant.
func firstMatch[C, R any](candidates []C, try func(C) (R, bool)) (R, bool) {
	for _, c := range candidates {
		if r, ok := try(c); ok {
			return r, true
		}
	}
	var zero R
	return zero, false
}
