package domain

// OptionsCount is the number of answer options in a question
const OptionsCount = 4

// Question is a multiple-choice translation question
type Question struct {
	// ID is the correlation token carried by answer buttons. Empty until issued.
	ID      string
	Prompt  string
	Correct string
	Options []string
}

// Option returns the option at index i
func (q *Question) Option(i int) (string, bool) {
	if i < 0 || i >= len(q.Options) {
		return "", false
	}
	return q.Options[i], true
}

// CheckAnswer reports whether the selected option matches the expected answer
func CheckAnswer(selected, expected string) bool {
	return selected == expected
}
