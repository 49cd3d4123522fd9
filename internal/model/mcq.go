package model

// MCQ is a stored multiple-choice question row.
type MCQ struct {
	MCQID         string `json:"mcq_id"`
	JobID         int64  `json:"job_id"`
	SkillName     string `json:"skill"`
	Question      string `json:"question"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer"` // 'A', 'B', 'C' or 'D'
	Band          Band   `json:"difficulty_band"`
}

// Options returns the four options in display order.
func (m *MCQ) Options() []string {
	return []string{m.OptionA, m.OptionB, m.OptionC, m.OptionD}
}

// AnswerText resolves the correct option's text, or "" when the answer
// letter is malformed.
func (m *MCQ) AnswerText() string {
	switch m.CorrectAnswer {
	case "A":
		return m.OptionA
	case "B":
		return m.OptionB
	case "C":
		return m.OptionC
	case "D":
		return m.OptionD
	}
	return ""
}

// BankQuestion is one entry of a session's in-memory question pool: the
// question text, its four options and the correct option's text. The correct
// answer never leaves the server; responses to candidates copy only the id,
// text and options.
type BankQuestion struct {
	MCQID    string   `json:"mcq_id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}
