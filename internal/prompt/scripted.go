package prompt

import "strconv"

// Scripted answers questions from a fixed list, in order. It records every
// question it was asked. Running out of answers behaves like EOF.
type Scripted struct {
	Answers []string
	Asked   []string
}

// NewScripted returns a Scripted prompter that replies with answers.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{Answers: answers}
}

func (s *Scripted) next(question string) (string, bool) {
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return "", false
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, true
}

func (s *Scripted) SelectOne(label string, count int) Selection {
	answer, ok := s.next(label + " (1-" + strconv.Itoa(count) + ")")
	if !ok {
		return InvalidSelection
	}
	return ParseSelection(answer, count)
}

func (s *Scripted) Confirm(question string) bool {
	answer, ok := s.next(question)
	return ok && (answer == "y" || answer == "yes")
}

// Remaining returns how many answers were not consumed.
func (s *Scripted) Remaining() int { return len(s.Answers) }
