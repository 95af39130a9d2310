package store

import (
	"reflect"
	"testing"

	"github.com/imtehaan/grader/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListResults(t *testing.T) {
	s := newTestStore(t)

	req := model.GradingRequest{
		Question:      "Define demand.",
		ModelAnswer:   "Willingness and ability to buy.",
		StudentAnswer: "Wanting to buy things.",
		Subject:       "Business Studies",
		Topic:         "markets",
	}
	result := model.GradingResult{
		OverallScore:        42,
		Percentage:          84,
		Grade:               "B",
		Strengths:           []string{"clear definition"},
		AreasForImprovement: []string{"add an example"},
		SpecificFeedback:    "Solid answer.",
		Suggestions:         []string{"mention ability to pay"},
	}

	id, err := s.SaveResult(req, result)
	if err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}
	if id == 0 {
		t.Fatal("SaveResult() returned zero id")
	}

	results, err := s.ListResults(10)
	if err != nil {
		t.Fatalf("ListResults() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("ListResults() = %d records, want 1", len(results))
	}
	got := results[0]
	if got.Subject != "Business Studies" || got.Topic != "markets" || got.Question != "Define demand." {
		t.Errorf("request fields round-trip: %+v", got)
	}
	if !reflect.DeepEqual(got.Result, result) {
		t.Errorf("Result = %+v, want %+v", got.Result, result)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not recorded")
	}
}

func TestListResultsNewestFirstAndLimited(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		req := model.GradingRequest{Question: "q", Topic: "markets"}
		if _, err := s.SaveResult(req, model.GradingResult{OverallScore: float64(i), Grade: "C"}); err != nil {
			t.Fatalf("SaveResult() error = %v", err)
		}
	}

	results, err := s.ListResults(2)
	if err != nil {
		t.Fatalf("ListResults() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("ListResults(2) = %d records", len(results))
	}
	if results[0].Result.OverallScore != 2 || results[1].Result.OverallScore != 1 {
		t.Errorf("order not newest first: %v, %v", results[0].Result.OverallScore, results[1].Result.OverallScore)
	}

	count, err := s.ResultCount()
	if err != nil {
		t.Fatalf("ResultCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("ResultCount() = %d, want 3", count)
	}
}

func sampleReport() model.ExamReport {
	return model.ExamReport{
		TotalQuestions:     2,
		QuestionsAttempted: 2,
		TotalMarks:         15,
		MarksObtained:      8,
		PercentageScore:    53.33,
		OverallGrade:       "F",
		OverallFeedback:    "Below expectations.",
		QuestionGrades: []model.QuestionGrade{
			{
				QuestionID: 1, QuestionNumber: 1, Part: "A",
				QuestionText: "Define supply.", StudentAnswer: "Selling stuff.", ModelAnswer: "Quantity offered for sale.",
				MarksAllocated: 10, MarksAwarded: 6, PercentageScore: 60,
				Feedback: "Partial.", Strengths: []string{"intuition"}, Improvements: []string{"terminology"},
			},
			{
				QuestionID: 2, QuestionNumber: 2, Part: "B",
				QuestionText: "Define demand.", StudentAnswer: "Buying stuff.", ModelAnswer: "Quantity buyers want.",
				MarksAllocated: 5, MarksAwarded: 2, PercentageScore: 40,
				Feedback: "Weak.", Strengths: []string{"attempted"}, Improvements: []string{"depth"},
			},
		},
		StrengthsSummary:  []string{"intuition"},
		WeaknessesSummary: []string{"terminology", "depth"},
		Recommendations:   []string{"Review fundamental concepts thoroughly"},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	s := newTestStore(t)
	report := sampleReport()

	id, err := s.SaveReport(model.MockExamRequest{ExamType: "mock", StudentID: "s1"}, report)
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	got, err := s.GetReport(id)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetReport() = nil for existing report")
	}
	if got.ExamType != "mock" || got.StudentID != "s1" {
		t.Errorf("request fields: %+v", got)
	}
	if !reflect.DeepEqual(got.Report, report) {
		t.Errorf("Report = %+v, want %+v", got.Report, report)
	}
}

func TestGetReportMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetReport(999)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetReport(999) = %+v, want nil", got)
	}
}

func TestListReportsOmitsGrades(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveReport(model.MockExamRequest{ExamType: "mock"}, sampleReport()); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	reports, err := s.ListReports(10)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("ListReports() = %d records", len(reports))
	}
	if len(reports[0].Report.QuestionGrades) != 0 {
		t.Error("listing should not load question grades")
	}
}

func TestExportReportsOldestFirstWithGrades(t *testing.T) {
	s := newTestStore(t)

	first := sampleReport()
	second := sampleReport()
	second.OverallGrade = "A"
	if _, err := s.SaveReport(model.MockExamRequest{StudentID: "s1"}, first); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if _, err := s.SaveReport(model.MockExamRequest{StudentID: "s2"}, second); err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}

	exported, err := s.ExportReports()
	if err != nil {
		t.Fatalf("ExportReports() error = %v", err)
	}
	if len(exported) != 2 {
		t.Fatalf("ExportReports() = %d records", len(exported))
	}
	if exported[0].StudentID != "s1" || exported[1].StudentID != "s2" {
		t.Errorf("export order not oldest first: %s, %s", exported[0].StudentID, exported[1].StudentID)
	}
	for i, r := range exported {
		if len(r.Report.QuestionGrades) != 2 {
			t.Errorf("export %d missing question grades", i)
		}
	}
}
