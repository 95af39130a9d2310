// Package prompts builds the grading prompts sent to the LLM.
package prompts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	studentAnswerRegex      = regexp.MustCompile(`(?i)</?\s*student-answer\b[^>]*>`)
	systemInstructionsRegex = regexp.MustCompile(`(?i)</?\s*system-instructions\b[^>]*>`)
)

const maxAnswerRunes = 10000

// MaxScore is the score ceiling of the single-answer grading rubric:
// five criteria at up to ten points each.
const MaxScore = 50.0

// GradeAnswer builds the initial single-answer grading prompt. The five
// rubric dimensions steer the model's judgment; only the overall score
// is reported back.
func GradeAnswer(question, modelAnswer, studentAnswer string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert Business Studies examiner and tutor. ")
	sb.WriteString("Please grade this answer comprehensively:\n\n")
	sb.WriteString("QUESTION:\n" + question + "\n\n")
	sb.WriteString("MODEL ANSWER:\n" + modelAnswer + "\n\n")
	sb.WriteString("STUDENT ANSWER:\n" + Sanitize(studentAnswer) + "\n\n")
	sb.WriteString("Evaluate the answer on these criteria, each scored 0-10:\n")
	sb.WriteString("- Accuracy of concepts and content\n")
	sb.WriteString("- Logical structure and clarity of argument\n")
	sb.WriteString("- Relevance and quality of examples\n")
	sb.WriteString("- Depth of analysis and critical thinking\n")
	sb.WriteString("- Proper use of subject terminology\n\n")
	sb.WriteString("Analyze the answer and provide:\n")
	sb.WriteString("1. Overall score out of 50\n")
	sb.WriteString("2. Percentage score\n")
	sb.WriteString("3. Letter grade (A, B, C, D, F)\n")
	sb.WriteString("4. List of strengths\n")
	sb.WriteString("5. Areas for improvement\n")
	sb.WriteString("6. Specific feedback\n")
	sb.WriteString("7. Actionable suggestions\n\n")
	sb.WriteString("Be fair, thorough, and constructive.\n")
	return sb.String()
}

// StructureResult builds the prompt that reformats free-text grading
// feedback into the exact GradingResult JSON schema.
func StructureResult(output string) string {
	var sb strings.Builder
	sb.WriteString("Structure this grading feedback into a JSON format:\n\n")
	sb.WriteString(output)
	sb.WriteString("\n\nReturn only valid JSON with this structure:\n")
	sb.WriteString(`{
    "overall_score": <score out of 50>,
    "percentage": <percentage as number without % symbol>,
    "grade": "<letter grade>",
    "strengths": ["strength1", "strength2"],
    "areas_for_improvement": ["area1", "area2"],
    "specific_feedback": "<detailed feedback>",
    "suggestions": ["suggestion1", "suggestion2"]
}`)
	sb.WriteString("\n\nImportant: percentage must be a number (e.g., 75.0), not a string with a % symbol.\n")
	return sb.String()
}

// ExtractResult builds the looser extraction prompt used when the
// structured response could not be parsed.
func ExtractResult(output string) string {
	var sb strings.Builder
	sb.WriteString("Extract specific grading information from this feedback:\n\n")
	sb.WriteString(output)
	sb.WriteString("\n\nProvide:\n")
	sb.WriteString("1. Overall score out of 50\n")
	sb.WriteString("2. Percentage\n")
	sb.WriteString("3. Letter grade\n")
	sb.WriteString("4. 3 main strengths\n")
	sb.WriteString("5. 3 areas for improvement\n")
	sb.WriteString("6. Summary feedback\n")
	sb.WriteString("7. 3 specific suggestions\n\n")
	sb.WriteString("Format as a simple list.\n")
	return sb.String()
}

// GradeQuestion builds the strict-JSON grading prompt for one mock exam
// question.
func GradeQuestion(questionText, modelAnswer, studentAnswer string, marks int) string {
	var sb strings.Builder
	sb.WriteString("You are an expert examiner grading a mock exam question. ")
	sb.WriteString("Please evaluate the student's answer comprehensively.\n\n")
	sb.WriteString("QUESTION:\n" + questionText + "\n\n")
	sb.WriteString("MODEL ANSWER:\n" + modelAnswer + "\n\n")
	sb.WriteString("STUDENT'S ANSWER:\n" + Sanitize(studentAnswer) + "\n\n")
	fmt.Fprintf(&sb, "MARKS ALLOCATED: %d\n\n", marks)
	sb.WriteString("Please provide:\n")
	fmt.Fprintf(&sb, "1. Marks awarded (0 to %d)\n", marks)
	sb.WriteString("2. Percentage score (0 to 100)\n")
	sb.WriteString("3. Detailed feedback on the answer\n")
	sb.WriteString("4. 2-3 key strengths\n")
	sb.WriteString("5. 2-3 areas for improvement\n\n")
	sb.WriteString("Be fair, constructive, and encouraging. Consider:\n")
	sb.WriteString("- Understanding of the topic\n")
	sb.WriteString("- Use of appropriate terminology\n")
	sb.WriteString("- Structure and clarity of response\n")
	sb.WriteString("- Relevance of the content\n")
	sb.WriteString("- Depth of analysis\n\n")
	sb.WriteString("Return your response in this JSON format:\n")
	fmt.Fprintf(&sb, `{
    "marks_awarded": <number between 0 and %d>,
    "percentage_score": <number between 0 and 100>,
    "feedback": "<detailed feedback>",
    "strengths": ["strength1", "strength2", "strength3"],
    "improvements": ["improvement1", "improvement2"]
}`, marks)
	sb.WriteString("\n")
	return sb.String()
}

// Sanitize strips prompt-injection tags from a student answer and caps
// its length.
func Sanitize(answer string) string {
	answer = studentAnswerRegex.ReplaceAllString(answer, "")
	answer = systemInstructionsRegex.ReplaceAllString(answer, "")
	answer = strings.TrimSpace(answer)

	if answer == "" {
		return "[No answer provided]"
	}

	if utf8.RuneCountInString(answer) > maxAnswerRunes {
		runes := []rune(answer)
		answer = string(runes[:maxAnswerRunes]) + "\n\n[Answer truncated due to length]"
	}

	return answer
}
