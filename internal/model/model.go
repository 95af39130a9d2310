package model

import "time"

// GradingResult is the structured outcome of grading a single answer
// against a model answer. Percentage is always a bare number, never a
// string carrying a percent sign.
type GradingResult struct {
	OverallScore        float64  `json:"overall_score"`
	Percentage          float64  `json:"percentage"`
	Grade               string   `json:"grade"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	SpecificFeedback    string   `json:"specific_feedback"`
	Suggestions         []string `json:"suggestions"`
}

// AttemptedQuestion is one exam question as submitted for grading.
// Solution and ModelAnswer are aliases on the wire; Solution wins when
// both are present.
type AttemptedQuestion struct {
	QuestionID     int64  `json:"question_id"`
	QuestionNumber int    `json:"question_number,omitempty"`
	Part           string `json:"part,omitempty"`
	Question       string `json:"question"`
	UserAnswer     string `json:"user_answer"`
	Solution       string `json:"solution,omitempty"`
	ModelAnswer    string `json:"model_answer,omitempty"`
	Marks          int    `json:"marks"`
}

// Reference returns the model answer for the question, preferring the
// solution field.
func (q AttemptedQuestion) Reference() string {
	if q.Solution != "" {
		return q.Solution
	}
	return q.ModelAnswer
}

// QuestionGrade is the graded outcome for one exam question.
// MarksAwarded never exceeds MarksAllocated, and PercentageScore equals
// MarksAwarded/MarksAllocated*100 when MarksAllocated > 0, else 0.
type QuestionGrade struct {
	QuestionID      int64    `json:"question_id"`
	QuestionNumber  int      `json:"question_number"`
	Part            string   `json:"part"`
	QuestionText    string   `json:"question_text"`
	StudentAnswer   string   `json:"student_answer"`
	ModelAnswer     string   `json:"model_answer"`
	MarksAllocated  int      `json:"marks_allocated"`
	MarksAwarded    float64  `json:"marks_awarded"`
	PercentageScore float64  `json:"percentage_score"`
	Feedback        string   `json:"feedback"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
}

// ExamReport aggregates question grades for a whole mock exam.
type ExamReport struct {
	TotalQuestions     int             `json:"total_questions"`
	QuestionsAttempted int             `json:"questions_attempted"`
	TotalMarks         int             `json:"total_marks"`
	MarksObtained      float64         `json:"marks_obtained"`
	PercentageScore    float64         `json:"percentage_score"`
	OverallGrade       string          `json:"overall_grade"`
	QuestionGrades     []QuestionGrade `json:"question_grades"`
	OverallFeedback    string          `json:"overall_feedback"`
	Recommendations    []string        `json:"recommendations"`
	StrengthsSummary   []string        `json:"strengths_summary"`
	WeaknessesSummary  []string        `json:"weaknesses_summary"`
}

// GradingRequest is the grade-answer request body.
type GradingRequest struct {
	Question      string `json:"question"`
	ModelAnswer   string `json:"model_answer"`
	StudentAnswer string `json:"student_answer"`
	Subject       string `json:"subject,omitempty"`
	Topic         string `json:"topic,omitempty"`
}

// GradingResponse wraps a GradingResult for the grade-answer endpoint.
type GradingResponse struct {
	Success bool          `json:"success"`
	Result  GradingResult `json:"result"`
	Message string        `json:"message,omitempty"`
}

// MockExamRequest is the grade-mock-exam request body.
type MockExamRequest struct {
	AttemptedQuestions []AttemptedQuestion `json:"attempted_questions"`
	ExamType           string              `json:"exam_type"`
	StudentID          string              `json:"student_id,omitempty"`
}

// MockExamResponse wraps an ExamReport for the grade-mock-exam endpoint.
type MockExamResponse struct {
	Success bool `json:"success"`
	ExamReport
	Message string `json:"message,omitempty"`
}

// TutorRequest is the tutor chat request body.
type TutorRequest struct {
	Message       string `json:"message"`
	Topic         string `json:"topic"`
	LessonContent string `json:"lesson_content,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	LearningLevel string `json:"learning_level,omitempty"`
}

// TutorResponse is the tutor chat response body.
type TutorResponse struct {
	Response        string   `json:"response"`
	Suggestions     []string `json:"suggestions"`
	RelatedConcepts []string `json:"related_concepts"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// LessonRequest asks the tutor for a structured lesson.
type LessonRequest struct {
	Topic              string   `json:"topic"`
	LearningObjectives []string `json:"learning_objectives"`
	DifficultyLevel    string   `json:"difficulty_level,omitempty"`
}

// LessonResponse is a generated lesson.
type LessonResponse struct {
	LessonContent     string   `json:"lesson_content"`
	KeyPoints         []string `json:"key_points"`
	PracticeQuestions []string `json:"practice_questions"`
	EstimatedDuration int      `json:"estimated_duration"`
}

// StoredResult is a persisted single-answer grading record.
type StoredResult struct {
	ID        int64         `json:"id"`
	Subject   string        `json:"subject"`
	Topic     string        `json:"topic"`
	Question  string        `json:"question"`
	Result    GradingResult `json:"result"`
	CreatedAt time.Time     `json:"created_at"`
}

// StoredReport is a persisted exam report record.
type StoredReport struct {
	ID        int64      `json:"id"`
	ExamType  string     `json:"exam_type"`
	StudentID string     `json:"student_id"`
	Report    ExamReport `json:"report"`
	CreatedAt time.Time  `json:"created_at"`
}

// ReportExport is the top-level structure written by the export command.
type ReportExport struct {
	Service     string         `json:"service"`
	ExportedAt  time.Time      `json:"exported_at"`
	NumReports  int            `json:"num_reports"`
	ExamReports []StoredReport `json:"exam_reports"`
}
