// Package tutor implements the AI tutoring collaborator: contextual
// chat over per-conversation history and structured lesson generation.
package tutor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/imtehaan/grader/internal/model"
	"github.com/imtehaan/grader/internal/parse"
)

// Completer is the completion gateway the tutor talks to.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// contextTurns is how many recent turns are included in a chat prompt.
const contextTurns = 5

// Tutor answers student questions and generates lessons. chat and
// lesson may be the same gateway at different temperatures.
type Tutor struct {
	chat    Completer
	lesson  Completer
	history *History
}

// New creates a tutor backed by the given gateways and history store.
func New(chat, lesson Completer, history *History) *Tutor {
	return &Tutor{chat: chat, lesson: lesson, history: history}
}

// Chat answers a student message in the context of their conversation.
// Gateway failures degrade to an apology response rather than an error.
func (t *Tutor) Chat(ctx context.Context, req model.TutorRequest) model.TutorResponse {
	level := req.LearningLevel
	if level == "" {
		level = "intermediate"
	}
	key := req.UserID + "_" + req.Topic

	t.history.Append(key, Turn{Role: "user", Content: req.Message})

	response, err := t.chat.Complete(ctx, t.chatPrompt(req, level, key))
	if err != nil {
		slog.Error("tutor chat failed", "topic", req.Topic, "error", err)
		return model.TutorResponse{
			Response: fmt.Sprintf("I apologize, but I encountered an error while processing your request. Please try again or rephrase your question about %s.", req.Topic),
			Suggestions: []string{
				"Try rephrasing your question",
				"Check your internet connection",
				"Ask a simpler question",
			},
			RelatedConcepts: []string{req.Topic},
			ConfidenceScore: 0.1,
		}
	}

	t.history.Append(key, Turn{Role: "assistant", Content: response})

	return model.TutorResponse{
		Response: response,
		Suggestions: []string{
			"Ask me more about " + req.Topic,
			"Request practice questions",
			"Get a lesson overview",
			"Ask for clarification",
		},
		RelatedConcepts: []string{
			"Advanced " + req.Topic + " concepts",
			"Real-world applications of " + req.Topic,
			"Common misconceptions about " + req.Topic,
		},
		ConfidenceScore: 0.95,
	}
}

func (t *Tutor) chatPrompt(req model.TutorRequest, level, key string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert AI tutor specializing in %s.\n", req.Topic)
	fmt.Fprintf(&sb, "The student asks: %q\n\n", req.Message)

	if turns := t.history.Recent(key, contextTurns); len(turns) > 0 {
		sb.WriteString("Previous conversation context:\n")
		for _, turn := range turns {
			role := "Student"
			if turn.Role == "assistant" {
				role = "Tutor"
			}
			sb.WriteString(role + ": " + turn.Content + "\n")
		}
		sb.WriteString("\n")
	}
	if req.LessonContent != "" {
		sb.WriteString("Current lesson material:\n" + req.LessonContent + "\n\n")
	}

	sb.WriteString("Provide a helpful, educational response that:\n")
	sb.WriteString("1. Directly addresses the student's question\n")
	fmt.Fprintf(&sb, "2. Uses appropriate difficulty level for %s\n", level)
	sb.WriteString("3. Includes relevant examples and explanations\n")
	sb.WriteString("4. Encourages further learning\n")
	return sb.String()
}

// Lesson generates a structured lesson. A gateway failure is returned
// as an error; an unparseable model response falls back to a
// deterministic outline.
func (t *Tutor) Lesson(ctx context.Context, req model.LessonRequest) (model.LessonResponse, error) {
	level := req.DifficultyLevel
	if level == "" {
		level = "intermediate"
	}
	objectives := strings.Join(req.LearningObjectives, ", ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a comprehensive lesson on %s with the following learning objectives:\n%s\n\n", req.Topic, objectives)
	fmt.Fprintf(&sb, "Difficulty level: %s\n\n", level)
	sb.WriteString("Provide:\n")
	sb.WriteString("1. Lesson content (detailed explanation)\n")
	sb.WriteString("2. Key points (bullet points)\n")
	sb.WriteString("3. Practice questions (3-5 questions)\n")
	sb.WriteString("4. Estimated duration in minutes\n\n")
	sb.WriteString("Format as JSON:\n")
	sb.WriteString(`{
    "lesson_content": "...",
    "key_points": ["...", "..."],
    "practice_questions": ["...", "..."],
    "estimated_duration": 30
}`)
	sb.WriteString("\n")

	response, err := t.lesson.Complete(ctx, sb.String())
	if err != nil {
		return model.LessonResponse{}, fmt.Errorf("lesson generation: %w", err)
	}

	var lesson model.LessonResponse
	if err := parse.Decode(response, &lesson); err != nil {
		slog.Warn("lesson response not parseable, using outline", "topic", req.Topic, "error", err)
		return model.LessonResponse{
			LessonContent: fmt.Sprintf("Here's a comprehensive lesson on %s covering %s.", req.Topic, objectives),
			KeyPoints: []string{
				"Understanding " + req.Topic,
				"Key concepts in " + req.Topic,
				"Applications of " + req.Topic,
			},
			PracticeQuestions: []string{
				"What is " + req.Topic + "?",
				"How does " + req.Topic + " work?",
				"Give examples of " + req.Topic,
			},
			EstimatedDuration: 45,
		}, nil
	}
	return lesson, nil
}
