package store

import (
	"math"

	"github.com/imtehaan/grader/internal/model"
)

// ExportReports returns every stored exam report, oldest first, with
// question grades attached.
func (s *Store) ExportReports() ([]model.StoredReport, error) {
	reports, err := s.ListReports(math.MaxInt32)
	if err != nil {
		return nil, err
	}

	// ListReports is newest-first; exports read chronologically.
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}

	for i := range reports {
		grades, err := s.questionGrades(reports[i].ID)
		if err != nil {
			return nil, err
		}
		reports[i].Report.QuestionGrades = grades
	}
	return reports, nil
}
