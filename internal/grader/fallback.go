package grader

import (
	"strings"

	"github.com/imtehaan/grader/internal/model"
)

// All fallback values live here so the same deterministic substitutes
// are used at every call site that has to degrade.

// fallbackResult is the zero-score result returned when the gateway is
// unreachable or grading fails outright. It has the same shape as a
// normal result so callers never special-case it.
func fallbackResult() model.GradingResult {
	return model.GradingResult{
		OverallScore:        0,
		Percentage:          0.0,
		Grade:               "F",
		Strengths:           []string{"Answer submitted successfully"},
		AreasForImprovement: []string{"Grading system error - please contact support"},
		SpecificFeedback:    "There was an error in the grading system. Please try again or contact support.",
		Suggestions:         []string{"Retry grading", "Check answer format", "Contact technical support"},
	}
}

// placeholderResult is the mid-range result used when the model's
// structured reply could not be parsed but a loose extraction of its
// qualitative feedback succeeded.
func placeholderResult(feedback string) model.GradingResult {
	return model.GradingResult{
		OverallScore: 35,
		Percentage:   70.0,
		Grade:        "C",
		Strengths: []string{
			"Good understanding of basic concepts",
			"Clear writing style",
			"Relevant examples",
		},
		AreasForImprovement: []string{
			"Need more depth in analysis",
			"Could use more subject terminology",
			"Structure could be improved",
		},
		SpecificFeedback: feedback,
		Suggestions: []string{
			"Review subject terminology",
			"Practice structured responses",
			"Include more analysis",
		},
	}
}

// unattemptedGrade handles questions without a model answer: grading is
// undecidable, so attempt is rewarded with half marks rather than a
// fabricated judgment. No gateway call is made.
func unattemptedGrade(q model.AttemptedQuestion) model.QuestionGrade {
	g := model.QuestionGrade{
		QuestionID:      q.QuestionID,
		QuestionNumber:  questionNumber(q),
		Part:            q.Part,
		QuestionText:    q.Question,
		StudentAnswer:   q.UserAnswer,
		ModelAnswer:     "No model answer available",
		MarksAllocated:  q.Marks,
		MarksAwarded:    0,
		PercentageScore: 0.0,
		Feedback:        "Your answer has been recorded. Detailed grading requires a model answer.",
		Strengths:       []string{"Attempt made"},
		Improvements:    []string{"Try to provide an answer"},
	}
	if attempted(q.UserAnswer) {
		g.MarksAwarded = float64(q.Marks) * 0.5
		g.PercentageScore = 50.0
		g.Strengths = []string{"Answer submitted"}
		g.Improvements = []string{"Keep practicing"}
	}
	return g
}

// errorGrade is the zero-mark grade for a question whose gateway call or
// parse failed irrecoverably. Per-question failure scores 0, not 50%,
// so aggregation cannot silently inflate an exam score.
func errorGrade(q model.AttemptedQuestion) model.QuestionGrade {
	ref := q.Reference()
	if ref == "" {
		ref = "No model answer"
	}
	return model.QuestionGrade{
		QuestionID:      q.QuestionID,
		QuestionNumber:  questionNumber(q),
		Part:            q.Part,
		QuestionText:    q.Question,
		StudentAnswer:   q.UserAnswer,
		ModelAnswer:     ref,
		MarksAllocated:  q.Marks,
		MarksAwarded:    0.0,
		PercentageScore: 0.0,
		Feedback:        "Error in grading system. Please contact support.",
		Strengths:       []string{"Answer submitted"},
		Improvements:    []string{"Grading error occurred"},
	}
}

// fallbackReport covers whole-exam failure before any question was
// graded, e.g. a context already expired on entry.
func fallbackReport(questions []model.AttemptedQuestion) model.ExamReport {
	totalMarks := 0
	for _, q := range questions {
		totalMarks += q.Marks
	}
	return model.ExamReport{
		TotalQuestions:     len(questions),
		QuestionsAttempted: len(questions),
		TotalMarks:         totalMarks,
		MarksObtained:      0.0,
		PercentageScore:    0.0,
		OverallGrade:       "F",
		QuestionGrades:     []model.QuestionGrade{},
		OverallFeedback:    "Error in grading system. Please try again or contact support.",
		Recommendations:    []string{"Retry the grading", "Contact technical support"},
		StrengthsSummary:   []string{"Answers submitted successfully"},
		WeaknessesSummary:  []string{"Grading system error"},
	}
}

func questionNumber(q model.AttemptedQuestion) int {
	if q.QuestionNumber != 0 {
		return q.QuestionNumber
	}
	return int(q.QuestionID)
}

func attempted(answer string) bool {
	return strings.TrimSpace(answer) != ""
}
