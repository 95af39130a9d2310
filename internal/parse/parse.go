// Package parse extracts structured grading payloads from raw LLM text.
//
// Model output is untrusted: it may wrap JSON in prose, quote numbers as
// strings, or omit fields entirely. Decode recovers an embedded object
// where one exists, and the payload types default every missing field so
// a successful parse always yields a complete value.
package parse

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrNoJSON reports that no decodable JSON object could be found in the
// model's response.
var ErrNoJSON = errors.New("no JSON object in response")

// Decode unmarshals raw into v. If raw is not valid JSON as-is, it makes
// one more attempt on the substring between the first '{' and the last
// '}'. Returns ErrNoJSON when both attempts fail.
func Decode(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return ErrNoJSON
	}
	return nil
}

// Number is a float64 that also accepts JSON strings such as "75" or
// "75%". Models asked for bare numbers still occasionally quote them.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// QuestionPayload is the object a per-question exam grading prompt asks
// the model to return. Pointer fields distinguish absent from zero.
type QuestionPayload struct {
	MarksAwarded    *Number  `json:"marks_awarded"`
	PercentageScore *Number  `json:"percentage_score"`
	Feedback        string   `json:"feedback"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
}

// ResolvedQuestion is a QuestionPayload with every field populated.
type ResolvedQuestion struct {
	MarksAwarded    float64
	PercentageScore float64
	Feedback        string
	Strengths       []string
	Improvements    []string
}

// Resolve fills in defaults for anything the model omitted: half the
// allocated marks, a 50% score, and generic feedback strings.
func (p QuestionPayload) Resolve(defaultMarks float64) ResolvedQuestion {
	r := ResolvedQuestion{
		MarksAwarded:    defaultMarks * 0.5,
		PercentageScore: 50.0,
		Feedback:        "Good effort on this question.",
		Strengths:       []string{"Answer submitted"},
		Improvements:    []string{"Keep practicing"},
	}
	if p.MarksAwarded != nil {
		r.MarksAwarded = float64(*p.MarksAwarded)
	}
	if p.PercentageScore != nil {
		r.PercentageScore = float64(*p.PercentageScore)
	}
	if p.Feedback != "" {
		r.Feedback = p.Feedback
	}
	if len(p.Strengths) > 0 {
		r.Strengths = p.Strengths
	}
	if len(p.Improvements) > 0 {
		r.Improvements = p.Improvements
	}
	return r
}

// ResultPayload is the object a single-answer restructuring prompt asks
// the model to return.
type ResultPayload struct {
	OverallScore        *Number  `json:"overall_score"`
	Percentage          *Number  `json:"percentage"`
	Grade               string   `json:"grade"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	SpecificFeedback    string   `json:"specific_feedback"`
	Suggestions         []string `json:"suggestions"`
}

// ResolvedResult is a ResultPayload with every field populated. Grade is
// left empty when the model omitted it; the caller derives a letter from
// the percentage.
type ResolvedResult struct {
	OverallScore        float64
	Percentage          float64
	Grade               string
	Strengths           []string
	AreasForImprovement []string
	SpecificFeedback    string
	Suggestions         []string
}

// Resolve fills in defaults for missing fields. maxScore is the score
// ceiling of the grading rubric (50 for the standard prompt); a missing
// overall score defaults to half of it.
func (p ResultPayload) Resolve(maxScore float64) ResolvedResult {
	r := ResolvedResult{
		OverallScore:        maxScore * 0.5,
		Percentage:          50.0,
		Grade:               p.Grade,
		Strengths:           []string{"Answer submitted"},
		AreasForImprovement: []string{"Keep practicing"},
		SpecificFeedback:    "Good effort on this answer.",
		Suggestions:         []string{"Keep practicing"},
	}
	if p.OverallScore != nil {
		r.OverallScore = float64(*p.OverallScore)
	}
	if p.Percentage != nil {
		r.Percentage = float64(*p.Percentage)
	}
	if len(p.Strengths) > 0 {
		r.Strengths = p.Strengths
	}
	if len(p.AreasForImprovement) > 0 {
		r.AreasForImprovement = p.AreasForImprovement
	}
	if p.SpecificFeedback != "" {
		r.SpecificFeedback = p.SpecificFeedback
	}
	if len(p.Suggestions) > 0 {
		r.Suggestions = p.Suggestions
	}
	return r
}
