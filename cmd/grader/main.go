package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/imtehaan/grader/internal/grader"
	"github.com/imtehaan/grader/internal/handler"
	"github.com/imtehaan/grader/internal/llm"
	"github.com/imtehaan/grader/internal/model"
	"github.com/imtehaan/grader/internal/store"
	"github.com/imtehaan/grader/internal/tutor"
)

// Sampling temperatures fixed by the grading design rather than
// configuration: exam questions are graded slightly warmer than single
// answers, lessons cooler than chat.
const (
	examTemperature   = 0.3
	lessonTemperature = 0.3
)

const historyMaxTurns = 100

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "grader",
		Short: "LLM-backed answer and mock exam grading service",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the grading HTTP server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8000", "HTTP listen address")
	f.String("db", "grader.db", "SQLite database path")
	f.String("env-file", "config.env", "Environment file loaded at startup (if present)")
	f.String("openai-url", "", "OpenAI-compatible API base URL (empty for api.openai.com)")
	f.String("openai-key", "", "API key for the LLM (or set OPENAI_API_KEY)")
	f.String("grading-model", "gpt-4", "Model used for grading")
	f.Float64("grading-temperature", 0.1, "Sampling temperature for single-answer grading")
	f.Int("grading-max-tokens", 4000, "Max output tokens per grading call")
	f.String("tutor-model", "gpt-4", "Model used for tutoring")
	f.Float64("tutor-temperature", 0.7, "Sampling temperature for tutor chat")
	f.Int("tutor-max-tokens", 4000, "Max output tokens per tutoring call")
	f.Int("history-limit", 1000, "Maximum number of tutoring conversations kept in memory")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored exam reports as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "grader.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper
// instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("GRADER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The credential also answers to the conventional variable name.
	_ = v.BindEnv("openai-key", "GRADER_OPENAI_KEY", "OPENAI_API_KEY")

	v.SetConfigName("grader")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/grader")
	v.AddConfigPath("/etc/grader")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)

	// Load the env file before viper binds the environment.
	if envFile, err := cmd.Flags().GetString("env-file"); err == nil && envFile != "" {
		if _, statErr := os.Stat(envFile); statErr == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
			slog.Info("loaded environment file", "path", envFile)
		}
	}
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	var (
		answerGrader *grader.Grader
		examGrader   *grader.ExamGrader
		aiTutor      *tutor.Tutor
	)

	apiKey := v.GetString("openai-key")
	if apiKey == "" {
		// Degraded mode: the server boots, grading endpoints answer 503.
		slog.Warn("no LLM credential configured, grading and tutoring disabled",
			"hint", "set OPENAI_API_KEY or --openai-key")
	} else {
		gradeClient, err := llm.New(
			v.GetString("openai-url"),
			apiKey,
			v.GetString("grading-model"),
			v.GetFloat64("grading-temperature"),
			v.GetInt("grading-max-tokens"),
		)
		if err != nil {
			return fmt.Errorf("create grading LLM client: %w", err)
		}
		tutorClient, err := llm.New(
			v.GetString("openai-url"),
			apiKey,
			v.GetString("tutor-model"),
			v.GetFloat64("tutor-temperature"),
			v.GetInt("tutor-max-tokens"),
		)
		if err != nil {
			return fmt.Errorf("create tutor LLM client: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := gradeClient.Ping(ctx); err != nil {
			slog.Warn("LLM endpoint check failed, grading will degrade to fallback results", "error", err)
		} else {
			slog.Info("LLM endpoint OK", "model", v.GetString("grading-model"))
		}
		cancel()

		answerGrader = grader.New(gradeClient)
		examGrader = grader.NewExam(gradeClient.WithTemperature(examTemperature))
		history := tutor.NewHistory(v.GetInt("history-limit"), historyMaxTurns)
		aiTutor = tutor.New(tutorClient, tutorClient.WithTemperature(lessonTemperature), history)
	}

	h := handler.New(answerGrader, examGrader, aiTutor, db)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   v.GetStringSlice("cors-origins"),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"grading_model", v.GetString("grading-model"),
		"tutor_model", v.GetString("tutor-model"),
		"grading_enabled", answerGrader != nil,
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	reports, err := db.ExportReports()
	if err != nil {
		return fmt.Errorf("export reports: %w", err)
	}

	export := model.ReportExport{
		Service:     "grader",
		ExportedAt:  time.Now().UTC(),
		NumReports:  len(reports),
		ExamReports: reports,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	return nil
}
