// Package grader turns LLM responses into well-typed grading results.
//
// Both graders degrade instead of failing: a gateway error or an
// unparseable response produces a deterministic fallback value, never an
// error to the caller.
package grader

import (
	"context"
	"log/slog"

	"github.com/imtehaan/grader/internal/llm/prompts"
	"github.com/imtehaan/grader/internal/model"
	"github.com/imtehaan/grader/internal/parse"
)

// Completer is the completion gateway: given a prompt, it returns the
// model's text or an error.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Grader grades one question/model-answer/student-answer triple.
type Grader struct {
	llm Completer
}

// New creates a single-answer grader.
func New(c Completer) *Grader {
	return &Grader{llm: c}
}

// Grade grades a student answer against the model answer. It always
// returns a complete GradingResult: gateway failures yield the
// zero-score fallback, parse failures the mid-range placeholder.
func (g *Grader) Grade(ctx context.Context, question, modelAnswer, studentAnswer string) model.GradingResult {
	output, err := g.llm.Complete(ctx, prompts.GradeAnswer(question, modelAnswer, studentAnswer))
	if err != nil {
		slog.Error("grading call failed", "error", err)
		return fallbackResult()
	}

	structured, err := g.llm.Complete(ctx, prompts.StructureResult(output))
	if err != nil {
		slog.Error("restructuring call failed", "error", err)
		return fallbackResult()
	}

	var payload parse.ResultPayload
	if err := parse.Decode(structured, &payload); err != nil {
		// Keep the model's qualitative feedback even when its JSON is
		// beyond repair: one looser extraction pass, placeholder scores.
		slog.Warn("structured response not parseable, extracting loosely", "error", err)
		extraction, err := g.llm.Complete(ctx, prompts.ExtractResult(output))
		if err != nil {
			slog.Error("extraction call failed", "error", err)
			return fallbackResult()
		}
		return placeholderResult(extraction)
	}

	r := payload.Resolve(prompts.MaxScore)
	grade := r.Grade
	if grade == "" {
		grade = AnswerGrade(r.Percentage)
	}
	return model.GradingResult{
		OverallScore:        r.OverallScore,
		Percentage:          r.Percentage,
		Grade:               grade,
		Strengths:           r.Strengths,
		AreasForImprovement: r.AreasForImprovement,
		SpecificFeedback:    r.SpecificFeedback,
		Suggestions:         r.Suggestions,
	}
}
