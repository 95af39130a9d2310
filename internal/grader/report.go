package grader

import (
	"fmt"
	"math"
	"sort"

	"github.com/imtehaan/grader/internal/model"
)

// LetterGrade maps an exam percentage to the exam-level letter scale.
func LetterGrade(percentage float64) string {
	switch {
	case percentage >= 97:
		return "A+"
	case percentage >= 93:
		return "A"
	case percentage >= 87:
		return "B+"
	case percentage >= 83:
		return "B"
	case percentage >= 77:
		return "C+"
	case percentage >= 73:
		return "C"
	case percentage >= 65:
		return "D"
	default:
		return "F"
	}
}

// AnswerGrade maps a single-answer percentage to the coarser A-F scale
// used by grade-answer when the model omits a letter.
func AnswerGrade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

func overallFeedback(percentage float64) string {
	switch {
	case percentage >= 90:
		return fmt.Sprintf("Outstanding performance! You scored %v%%, demonstrating excellent mastery of the subject. Your understanding is exceptional across all topics covered.", percentage)
	case percentage >= 80:
		return fmt.Sprintf("Excellent work! Your score of %v%% shows strong understanding of the material. You have a solid grasp of key concepts and can apply them effectively.", percentage)
	case percentage >= 70:
		return fmt.Sprintf("Good performance with %v%%. You demonstrate a solid understanding of most concepts. With some focused practice, you can achieve even better results.", percentage)
	case percentage >= 60:
		return fmt.Sprintf("Satisfactory performance at %v%%. You understand the basics but need to strengthen your knowledge in several areas. Keep studying!", percentage)
	case percentage >= 50:
		return fmt.Sprintf("Below expectations at %v%%. Focus on understanding core concepts and improving your answer structure. More practice will help you improve significantly.", percentage)
	default:
		return fmt.Sprintf("Needs improvement at %v%%. Review the fundamental concepts and work on building your understanding. Don't give up - consistent effort will lead to progress.", percentage)
	}
}

func recommendations(grades []model.QuestionGrade, percentage float64) []string {
	var recs []string
	switch {
	case percentage < 60:
		recs = append(recs,
			"Review fundamental concepts thoroughly",
			"Practice writing structured answers with clear points",
			"Focus on using appropriate subject terminology",
		)
	case percentage < 80:
		recs = append(recs,
			"Strengthen understanding in weaker topic areas",
			"Practice providing more detailed analysis in answers",
			"Work on connecting concepts to real-world examples",
		)
	default:
		recs = append(recs,
			"Continue practicing with more challenging questions",
			"Focus on refining your critical analysis skills",
			"Maintain your excellent study habits",
		)
	}

	if lowest := lowestScoring(grades); lowest != nil {
		recs = append(recs, fmt.Sprintf("Pay special attention to Question %d Part %s - scored %v%%",
			lowest.QuestionNumber, lowest.Part, lowest.PercentageScore))
	}
	return recs
}

// lowestScoring returns the first-seen grade with the minimum
// percentage, or nil for an empty slice.
func lowestScoring(grades []model.QuestionGrade) *model.QuestionGrade {
	if len(grades) == 0 {
		return nil
	}
	sorted := make([]model.QuestionGrade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PercentageScore < sorted[j].PercentageScore
	})
	return &sorted[0]
}

func summaries(grades []model.QuestionGrade) (strengths, weaknesses []string) {
	var allStrengths, allImprovements []string
	for _, g := range grades {
		allStrengths = append(allStrengths, g.Strengths...)
		allImprovements = append(allImprovements, g.Improvements...)
	}

	strengths = topRecurring(allStrengths, 3)
	weaknesses = topRecurring(allImprovements, 3)

	if len(strengths) == 0 {
		strengths = []string{"Consistent effort across questions", "Completed all questions"}
	}
	if len(weaknesses) == 0 {
		weaknesses = []string{"Continue practicing", "Maintain focus and effort"}
	}
	return strengths, weaknesses
}

// topRecurring returns the n most frequent strings, ties broken by
// first occurrence order.
func topRecurring(items []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
