package service

import (
	"fmt"
	"math/rand"
)

var greetingMessages = []string{
	"Alright, let's get started with your assessment! Here's your first question.",
	"Ready to show your skills? Here's the next question for you!",
	"Time to shine! Let's dive into this question.",
	"Here comes a new challenge. You've got this!",
}

var correctFeedback = []string{
	"Nice one! That was spot on.",
	"Great job! You nailed it!",
	"Perfect! Keep it up!",
	"Awesome! That's correct.",
}

var incorrectFeedback = []string{
	"Oops! The correct answer was: %s",
	"Not quite. The right answer was: %s",
	"Missed that one. Correct answer: %s",
	"Close, but the answer was: %s",
}

// feedbackPicker chooses candidate-facing strings. The random source is
// injected so tests can seed it.
type feedbackPicker struct {
	rng *rand.Rand
}

func (p *feedbackPicker) greeting() string {
	return greetingMessages[p.rng.Intn(len(greetingMessages))]
}

func (p *feedbackPicker) correct() string {
	return correctFeedback[p.rng.Intn(len(correctFeedback))]
}

func (p *feedbackPicker) incorrect(answer string) string {
	return fmt.Sprintf(incorrectFeedback[p.rng.Intn(len(incorrectFeedback))], answer)
}
