package interview

import (
	"fmt"

	"github.com/hirewise/hirewise/pkg/model"
)

// fallbackQuestions is the fixed template set used whenever generation cannot
// produce a valid 5-question set. Only the first question is multiple-choice;
// the open-ended ones are scored by the provider at submission time (with the
// heuristic as a second net), so a generation outage never blocks screening.
func fallbackQuestions(jobTitle string) []model.Question {
	return []model.Question{
		{
			Number:     1,
			Type:       model.QuestionMultipleChoice,
			Difficulty: model.DifficultyEasy,
			Text:       fmt.Sprintf("How many years of hands-on experience do you have in a %s role or similar?", jobTitle),
			Options: []string{
				"A) Less than 1 year",
				"B) 1-3 years",
				"C) 3-5 years",
				"D) More than 5 years",
			},
			CorrectAnswer: "C",
		},
		{
			Number:     2,
			Type:       model.QuestionShortAnswer,
			Difficulty: model.DifficultyEasy,
			Text:       fmt.Sprintf("Why are you interested in this %s position, and what makes you a good fit?", jobTitle),
		},
		{
			Number:     3,
			Type:       model.QuestionScenario,
			Difficulty: model.DifficultyMedium,
			Text:       "Describe a challenging problem you faced in a previous role and how you resolved it.",
		},
		{
			Number:     4,
			Type:       model.QuestionTechnical,
			Difficulty: model.DifficultyMedium,
			Text:       fmt.Sprintf("What are the most important skills or tools for a %s, and how have you applied them?", jobTitle),
		},
		{
			Number:     5,
			Type:       model.QuestionBehavioral,
			Difficulty: model.DifficultyMedium,
			Text:       "Tell us about a time you had to learn something new quickly to meet a deadline. What was your approach?",
		},
	}
}
