// Package store persists grading output in SQLite for operator review
// and analytics. Writes are best-effort from the caller's point of
// view: a failed save never fails a grading request.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imtehaan/grader/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS grading_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		subject TEXT NOT NULL DEFAULT '',
		topic TEXT NOT NULL DEFAULT '',
		question TEXT NOT NULL,
		overall_score REAL NOT NULL,
		percentage REAL NOT NULL,
		grade TEXT NOT NULL,
		strengths TEXT NOT NULL DEFAULT '[]',
		areas_for_improvement TEXT NOT NULL DEFAULT '[]',
		specific_feedback TEXT NOT NULL DEFAULT '',
		suggestions TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS exam_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exam_type TEXT NOT NULL DEFAULT '',
		student_id TEXT NOT NULL DEFAULT '',
		total_questions INTEGER NOT NULL,
		questions_attempted INTEGER NOT NULL,
		total_marks INTEGER NOT NULL,
		marks_obtained REAL NOT NULL,
		percentage_score REAL NOT NULL,
		overall_grade TEXT NOT NULL,
		overall_feedback TEXT NOT NULL DEFAULT '',
		recommendations TEXT NOT NULL DEFAULT '[]',
		strengths_summary TEXT NOT NULL DEFAULT '[]',
		weaknesses_summary TEXT NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS question_grades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL,
		question_id INTEGER NOT NULL,
		question_number INTEGER NOT NULL,
		part TEXT NOT NULL DEFAULT '',
		question_text TEXT NOT NULL,
		student_answer TEXT NOT NULL,
		model_answer TEXT NOT NULL,
		marks_allocated INTEGER NOT NULL,
		marks_awarded REAL NOT NULL,
		percentage_score REAL NOT NULL,
		feedback TEXT NOT NULL DEFAULT '',
		strengths TEXT NOT NULL DEFAULT '[]',
		improvements TEXT NOT NULL DEFAULT '[]',
		FOREIGN KEY (report_id) REFERENCES exam_reports(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveResult stores a single-answer grading record.
func (s *Store) SaveResult(req model.GradingRequest, r model.GradingResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO grading_results
		 (subject, topic, question, overall_score, percentage, grade, strengths, areas_for_improvement, specific_feedback, suggestions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.Subject, req.Topic, req.Question,
		r.OverallScore, r.Percentage, r.Grade,
		marshalList(r.Strengths), marshalList(r.AreasForImprovement),
		r.SpecificFeedback, marshalList(r.Suggestions), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListResults returns stored single-answer records, newest first.
func (s *Store) ListResults(limit int) ([]model.StoredResult, error) {
	rows, err := s.db.Query(
		`SELECT id, subject, topic, question, overall_score, percentage, grade,
		        strengths, areas_for_improvement, specific_feedback, suggestions, created_at
		 FROM grading_results ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.StoredResult
	for rows.Next() {
		var sr model.StoredResult
		var strengths, areas, suggestions string
		if err := rows.Scan(&sr.ID, &sr.Subject, &sr.Topic, &sr.Question,
			&sr.Result.OverallScore, &sr.Result.Percentage, &sr.Result.Grade,
			&strengths, &areas, &sr.Result.SpecificFeedback, &suggestions, &sr.CreatedAt); err != nil {
			return nil, err
		}
		sr.Result.Strengths = unmarshalList(strengths)
		sr.Result.AreasForImprovement = unmarshalList(areas)
		sr.Result.Suggestions = unmarshalList(suggestions)
		results = append(results, sr)
	}
	return results, rows.Err()
}

// SaveReport stores an exam report with its question grades.
func (s *Store) SaveReport(req model.MockExamRequest, r model.ExamReport) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO exam_reports
		 (exam_type, student_id, total_questions, questions_attempted, total_marks, marks_obtained,
		  percentage_score, overall_grade, overall_feedback, recommendations, strengths_summary, weaknesses_summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		req.ExamType, req.StudentID,
		r.TotalQuestions, r.QuestionsAttempted, r.TotalMarks, r.MarksObtained,
		r.PercentageScore, r.OverallGrade, r.OverallFeedback,
		marshalList(r.Recommendations), marshalList(r.StrengthsSummary), marshalList(r.WeaknessesSummary),
		time.Now(),
	)
	if err != nil {
		return 0, err
	}
	reportID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, g := range r.QuestionGrades {
		_, err := tx.Exec(
			`INSERT INTO question_grades
			 (report_id, question_id, question_number, part, question_text, student_answer, model_answer,
			  marks_allocated, marks_awarded, percentage_score, feedback, strengths, improvements)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			reportID, g.QuestionID, g.QuestionNumber, g.Part, g.QuestionText, g.StudentAnswer, g.ModelAnswer,
			g.MarksAllocated, g.MarksAwarded, g.PercentageScore, g.Feedback,
			marshalList(g.Strengths), marshalList(g.Improvements),
		)
		if err != nil {
			return 0, err
		}
	}

	return reportID, tx.Commit()
}

// GetReport returns a stored report with its question grades.
func (s *Store) GetReport(id int64) (*model.StoredReport, error) {
	var sr model.StoredReport
	var recs, strengths, weaknesses string
	err := s.db.QueryRow(
		`SELECT id, exam_type, student_id, total_questions, questions_attempted, total_marks, marks_obtained,
		        percentage_score, overall_grade, overall_feedback, recommendations, strengths_summary, weaknesses_summary, created_at
		 FROM exam_reports WHERE id = ?`, id,
	).Scan(&sr.ID, &sr.ExamType, &sr.StudentID,
		&sr.Report.TotalQuestions, &sr.Report.QuestionsAttempted, &sr.Report.TotalMarks, &sr.Report.MarksObtained,
		&sr.Report.PercentageScore, &sr.Report.OverallGrade, &sr.Report.OverallFeedback,
		&recs, &strengths, &weaknesses, &sr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sr.Report.Recommendations = unmarshalList(recs)
	sr.Report.StrengthsSummary = unmarshalList(strengths)
	sr.Report.WeaknessesSummary = unmarshalList(weaknesses)

	grades, err := s.questionGrades(id)
	if err != nil {
		return nil, err
	}
	sr.Report.QuestionGrades = grades
	return &sr, nil
}

func (s *Store) questionGrades(reportID int64) ([]model.QuestionGrade, error) {
	rows, err := s.db.Query(
		`SELECT question_id, question_number, part, question_text, student_answer, model_answer,
		        marks_allocated, marks_awarded, percentage_score, feedback, strengths, improvements
		 FROM question_grades WHERE report_id = ? ORDER BY id`, reportID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grades := []model.QuestionGrade{}
	for rows.Next() {
		var g model.QuestionGrade
		var strengths, improvements string
		if err := rows.Scan(&g.QuestionID, &g.QuestionNumber, &g.Part, &g.QuestionText, &g.StudentAnswer, &g.ModelAnswer,
			&g.MarksAllocated, &g.MarksAwarded, &g.PercentageScore, &g.Feedback, &strengths, &improvements); err != nil {
			return nil, err
		}
		g.Strengths = unmarshalList(strengths)
		g.Improvements = unmarshalList(improvements)
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// ListReports returns stored reports without question grades, newest
// first.
func (s *Store) ListReports(limit int) ([]model.StoredReport, error) {
	rows, err := s.db.Query(
		`SELECT id, exam_type, student_id, total_questions, questions_attempted, total_marks, marks_obtained,
		        percentage_score, overall_grade, overall_feedback, recommendations, strengths_summary, weaknesses_summary, created_at
		 FROM exam_reports ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.StoredReport
	for rows.Next() {
		var sr model.StoredReport
		var recs, strengths, weaknesses string
		if err := rows.Scan(&sr.ID, &sr.ExamType, &sr.StudentID,
			&sr.Report.TotalQuestions, &sr.Report.QuestionsAttempted, &sr.Report.TotalMarks, &sr.Report.MarksObtained,
			&sr.Report.PercentageScore, &sr.Report.OverallGrade, &sr.Report.OverallFeedback,
			&recs, &strengths, &weaknesses, &sr.CreatedAt); err != nil {
			return nil, err
		}
		sr.Report.Recommendations = unmarshalList(recs)
		sr.Report.StrengthsSummary = unmarshalList(strengths)
		sr.Report.WeaknessesSummary = unmarshalList(weaknesses)
		reports = append(reports, sr)
	}
	return reports, rows.Err()
}

// ResultCount returns the number of stored single-answer records.
func (s *Store) ResultCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM grading_results`).Scan(&count)
	return count, err
}

func marshalList(items []string) string {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalList(data string) []string {
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return []string{}
	}
	return items
}
