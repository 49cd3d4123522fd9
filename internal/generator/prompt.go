package generator

import (
	"fmt"
	"strings"

	"github.com/skillprobe/skillprobe-backend/internal/model"
)

// bandDescriptors shape the difficulty the model aims for. The wording keeps
// the three levels clearly separated so adjacent bands produce distinct
// questions.
var bandDescriptors = map[model.Band]string{
	model.BandGood:    "foundational, testing core concepts and common usage",
	model.BandBetter:  "intermediate, testing applied understanding and edge cases",
	model.BandPerfect: "advanced, testing deep internals, performance trade-offs and expert-level judgment",
}

const maxAvoidQuestions = 3

// buildPrompt renders the user prompt for one generation request.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d multiple-choice questions on the skill %q.\n", req.Count, req.SkillName)
	fmt.Fprintf(&b, "Difficulty: %s.\n", bandDescriptors[req.Band])
	b.WriteString("Each question must have exactly 4 options and exactly one correct answer. The \"answer\" field must repeat the correct option text verbatim.\n")

	if req.JobDescription != "" {
		fmt.Fprintf(&b, "\nThe candidate is being assessed for the following role:\n%s\n", req.JobDescription)
	}
	if req.CustomPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from the recruiter:\n%s\n", req.CustomPrompt)
	}

	if len(req.AvoidQuestions) > 0 {
		avoid := req.AvoidQuestions
		if len(avoid) > maxAvoidQuestions {
			avoid = avoid[len(avoid)-maxAvoidQuestions:]
		}
		b.WriteString("\nDo not repeat or closely paraphrase these recently asked questions:\n")
		for _, q := range avoid {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}

	return b.String()
}

const systemInstruction = "You are an expert technical interviewer. " +
	"You write precise, unambiguous multiple-choice questions with exactly one correct answer. " +
	"Never include answer hints inside the question text."
