package quiz

// Evaluate reports whether the submitted choice is the correct answer.
// Comparison is exact: choices are corpus text handed back verbatim.
func Evaluate(submitted, correctAnswer string) bool {
	return submitted == correctAnswer
}
