package grader

import (
	"context"
	"log/slog"
	"sync"

	"github.com/imtehaan/grader/internal/llm/prompts"
	"github.com/imtehaan/grader/internal/model"
	"github.com/imtehaan/grader/internal/parse"
)

// ExamGrader grades complete mock exams: one gateway call per question
// with a model answer, then pure aggregation into an ExamReport.
type ExamGrader struct {
	llm Completer
}

// NewExam creates an exam grader.
func NewExam(c Completer) *ExamGrader {
	return &ExamGrader{llm: c}
}

// GradeExam grades every attempted question and aggregates the results.
// Questions are graded concurrently; the report lists grades in input
// order. Like Grade, it never returns an error.
func (g *ExamGrader) GradeExam(ctx context.Context, questions []model.AttemptedQuestion) model.ExamReport {
	if ctx.Err() != nil {
		slog.Error("exam grading aborted", "error", ctx.Err())
		return fallbackReport(questions)
	}

	grades := make([]model.QuestionGrade, len(questions))
	var wg sync.WaitGroup
	for i, q := range questions {
		i, q := i, q
		wg.Add(1)
		go func() {
			defer wg.Done()
			grades[i] = g.gradeQuestion(ctx, q)
		}()
	}
	wg.Wait()

	return buildReport(questions, grades)
}

func (g *ExamGrader) gradeQuestion(ctx context.Context, q model.AttemptedQuestion) model.QuestionGrade {
	ref := q.Reference()
	if ref == "" {
		// Grading without a reference answer is undecidable; reward the
		// attempt instead of calling the model.
		return unattemptedGrade(q)
	}

	output, err := g.llm.Complete(ctx, prompts.GradeQuestion(q.Question, ref, q.UserAnswer, q.Marks))
	if err != nil {
		slog.Error("question grading failed", "question_id", q.QuestionID, "error", err)
		return errorGrade(q)
	}

	var payload parse.QuestionPayload
	if err := parse.Decode(output, &payload); err != nil {
		slog.Warn("question grading response not parseable", "question_id", q.QuestionID, "error", err)
		return errorGrade(q)
	}

	r := payload.Resolve(float64(q.Marks))
	awarded := r.MarksAwarded
	if awarded < 0 {
		awarded = 0
	}
	if max := float64(q.Marks); awarded > max {
		awarded = max
	}
	pct := 0.0
	if q.Marks > 0 {
		pct = awarded / float64(q.Marks) * 100
	}

	return model.QuestionGrade{
		QuestionID:      q.QuestionID,
		QuestionNumber:  questionNumber(q),
		Part:            q.Part,
		QuestionText:    q.Question,
		StudentAnswer:   q.UserAnswer,
		ModelAnswer:     ref,
		MarksAllocated:  q.Marks,
		MarksAwarded:    awarded,
		PercentageScore: pct,
		Feedback:        r.Feedback,
		Strengths:       r.Strengths,
		Improvements:    r.Improvements,
	}
}

func buildReport(questions []model.AttemptedQuestion, grades []model.QuestionGrade) model.ExamReport {
	totalMarks := 0
	for _, q := range questions {
		totalMarks += q.Marks
	}
	obtained := 0.0
	for _, g := range grades {
		obtained += g.MarksAwarded
	}
	pct := 0.0
	if totalMarks > 0 {
		pct = round2(obtained / float64(totalMarks) * 100)
	}

	strengths, weaknesses := summaries(grades)

	return model.ExamReport{
		TotalQuestions:     len(questions),
		QuestionsAttempted: len(questions),
		TotalMarks:         totalMarks,
		MarksObtained:      obtained,
		PercentageScore:    pct,
		OverallGrade:       LetterGrade(pct),
		QuestionGrades:     grades,
		OverallFeedback:    overallFeedback(pct),
		Recommendations:    recommendations(grades, pct),
		StrengthsSummary:   strengths,
		WeaknessesSummary:  weaknesses,
	}
}
