// Package handler exposes the grading and tutoring services over HTTP.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/imtehaan/grader/internal/grader"
	"github.com/imtehaan/grader/internal/model"
	"github.com/imtehaan/grader/internal/store"
	"github.com/imtehaan/grader/internal/tutor"
)

const defaultListLimit = 50

// Handler holds shared dependencies for HTTP handlers. The graders and
// tutor are nil when no LLM credential was configured; their endpoints
// then respond 503 instead of the whole process refusing to start.
type Handler struct {
	grader     *grader.Grader
	examGrader *grader.ExamGrader
	tutor      *tutor.Tutor
	store      *store.Store
}

// New creates a new Handler.
func New(g *grader.Grader, eg *grader.ExamGrader, t *tutor.Tutor, s *store.Store) *Handler {
	return &Handler{grader: g, examGrader: eg, tutor: t, store: s}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleIndex)
	r.Get("/health", h.handleHealth)

	r.Post("/grade-answer", h.handleGradeAnswer)
	r.Post("/grade-mock-exam", h.handleGradeMockExam)
	r.Get("/grading/health", h.handleGradingHealth)
	r.Get("/grading/results", h.handleListResults)
	r.Get("/grading/reports", h.handleListReports)
	r.Get("/grading/reports/{reportID}", h.handleGetReport)

	r.Post("/tutor/chat", h.handleTutorChat)
	r.Post("/tutor/lesson", h.handleTutorLesson)
	r.Get("/tutor/health", h.handleTutorHealth)
}

func (h *Handler) handleGradeAnswer(w http.ResponseWriter, r *http.Request) {
	if h.grader == nil {
		respondError(w, http.StatusServiceUnavailable, "Grading service not available")
		return
	}

	var req model.GradingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		respondError(w, http.StatusBadRequest, "Question cannot be empty")
		return
	}
	if strings.TrimSpace(req.ModelAnswer) == "" {
		respondError(w, http.StatusBadRequest, "Model answer cannot be empty")
		return
	}
	if strings.TrimSpace(req.StudentAnswer) == "" {
		respondError(w, http.StatusBadRequest, "Student answer cannot be empty")
		return
	}

	result := h.grader.Grade(r.Context(), req.Question, req.ModelAnswer, req.StudentAnswer)

	if h.store != nil {
		if _, err := h.store.SaveResult(req, result); err != nil {
			slog.Error("save grading result", "error", err)
		}
	}

	respondJSON(w, http.StatusOK, model.GradingResponse{
		Success: true,
		Result:  result,
		Message: "Answer graded successfully",
	})
}

func (h *Handler) handleGradeMockExam(w http.ResponseWriter, r *http.Request) {
	if h.examGrader == nil {
		respondError(w, http.StatusServiceUnavailable, "Mock exam grading service not available")
		return
	}

	var req model.MockExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.AttemptedQuestions) == 0 {
		respondError(w, http.StatusBadRequest, "No attempted questions provided")
		return
	}

	slog.Info("grading mock exam", "exam_type", req.ExamType, "questions", len(req.AttemptedQuestions))
	report := h.examGrader.GradeExam(r.Context(), req.AttemptedQuestions)

	if h.store != nil {
		if _, err := h.store.SaveReport(req, report); err != nil {
			slog.Error("save exam report", "error", err)
		}
	}

	respondJSON(w, http.StatusOK, model.MockExamResponse{
		Success:    true,
		ExamReport: report,
		Message:    "Exam graded successfully",
	})
}

func (h *Handler) handleTutorChat(w http.ResponseWriter, r *http.Request) {
	if h.tutor == nil {
		respondError(w, http.StatusServiceUnavailable, "Tutor service not available")
		return
	}

	var req model.TutorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondError(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	respondJSON(w, http.StatusOK, h.tutor.Chat(r.Context(), req))
}

func (h *Handler) handleTutorLesson(w http.ResponseWriter, r *http.Request) {
	if h.tutor == nil {
		respondError(w, http.StatusServiceUnavailable, "Tutor service not available")
		return
	}

	var req model.LessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		respondError(w, http.StatusBadRequest, "Topic cannot be empty")
		return
	}

	lesson, err := h.tutor.Lesson(r.Context(), req)
	if err != nil {
		slog.Error("lesson generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Error creating lesson")
		return
	}
	respondJSON(w, http.StatusOK, lesson)
}

func (h *Handler) handleListResults(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Result storage not available")
		return
	}
	results, err := h.store.ListResults(listLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []model.StoredResult{}
	}
	respondJSON(w, http.StatusOK, results)
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Result storage not available")
		return
	}
	reports, err := h.store.ListReports(listLimit(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if reports == nil {
		reports = []model.StoredReport{}
	}
	respondJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respondError(w, http.StatusServiceUnavailable, "Result storage not available")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "reportID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid report ID")
		return
	}
	report, err := h.store.GetReport(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if report == nil {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) handleGradingHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.grader == nil {
		status = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":                        status,
		"grading_agent_ready":           h.grader != nil,
		"mock_exam_grading_agent_ready": h.examGrader != nil,
		"service":                       "Answer Grading API",
	})
}

func (h *Handler) handleTutorHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.tutor == nil {
		status = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"service": "AI Tutor",
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	gradingStatus := "healthy"
	if h.grader == nil {
		gradingStatus = "unavailable"
	}
	tutorStatus := "healthy"
	if h.tutor == nil {
		tutorStatus = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"services": map[string]any{
			"grading": map[string]any{
				"status":      gradingStatus,
				"agent_ready": h.grader != nil,
			},
			"ai_tutor": map[string]any{
				"status": tutorStatus,
			},
		},
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	gradingStatus := "available"
	if h.grader == nil {
		gradingStatus = "unavailable"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Imtehaan AI EdTech Platform - Grading Backend",
		"services": map[string]any{
			"grading": map[string]any{
				"status": gradingStatus,
				"endpoints": map[string]string{
					"grade_answer":    "/grade-answer",
					"grade_mock_exam": "/grade-mock-exam",
					"health":          "/grading/health",
				},
			},
			"ai_tutor": map[string]any{
				"endpoints": map[string]string{
					"chat":   "/tutor/chat",
					"lesson": "/tutor/lesson",
					"health": "/tutor/health",
				},
			},
		},
	})
}

func listLimit(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultListLimit
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
