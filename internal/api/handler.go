package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/muhammadolammi/resumeanalyzer/internal/analysis"
	"github.com/muhammadolammi/resumeanalyzer/internal/extract"
	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
	"github.com/muhammadolammi/resumeanalyzer/internal/recognizer"
	"github.com/muhammadolammi/resumeanalyzer/internal/render"
)

var supportedTypes = []string{string(extract.PDF), string(extract.DOCX)}

type Handler struct {
	analyzer *analysis.Analyzer
}

func NewHandler(analyzer *analysis.Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/healthz", h.Health)

	v1 := app.Group("/api/v1")
	v1.Get("/profiles", h.ListProfiles)

	resumes := v1.Group("/resumes")
	resumes.Post("/check", h.CheckResume) // one resume against one profile
	resumes.Post("/rank", h.RankResumes)  // many resumes against a job description
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ListProfiles returns the job profile catalog in declaration order.
// GET /api/v1/profiles
func (h *Handler) ListProfiles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"profiles": h.analyzer.Catalog().Profiles(),
	})
}

// CheckResume scores an uploaded resume against a chosen profile.
// POST /api/v1/resumes/check
func (h *Handler) CheckResume(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file is required",
		})
	}
	format, err := extract.FormatFromFilename(file.Filename)
	if err != nil {
		return unsupportedFile(c, file.Filename)
	}

	profile := c.FormValue("profile")
	if profile == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    "profile is required",
			"profiles": h.analyzer.Catalog().Titles(),
		})
	}

	report, err := h.analyzer.SelfCheck(c.UserContext(), uploadDocument(file, format), profile)
	if err != nil {
		return h.analysisError(c, err)
	}

	if wantsMarkdown(c) {
		var buf bytes.Buffer
		if err := render.SelfCheck(&buf, report); err != nil {
			return err
		}
		return sendMarkdown(c, buf.String())
	}
	return c.JSON(report)
}

// RankResumes ranks every uploaded resume against the comma separated skills
// of the job description. Documents that fail are listed with their error.
// POST /api/v1/resumes/rank
func (h *Handler) RankResumes(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart form is required",
		})
	}
	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one resume is required",
		})
	}

	docs := make([]analysis.Document, 0, len(files))
	for _, f := range files {
		format, err := extract.FormatFromFilename(f.Filename)
		if err != nil {
			return unsupportedFile(c, f.Filename)
		}
		docs = append(docs, uploadDocument(f, format))
	}

	ranking, err := h.analyzer.Rank(c.UserContext(), docs, c.FormValue("job_description"))
	if err != nil {
		return h.analysisError(c, err)
	}

	if wantsMarkdown(c) {
		var buf bytes.Buffer
		if err := render.Ranking(&buf, ranking); err != nil {
			return err
		}
		return sendMarkdown(c, buf.String())
	}
	return c.JSON(ranking)
}

func (h *Handler) analysisError(c *fiber.Ctx, err error) error {
	var extractionErr *extract.ExtractionError
	switch {
	case errors.Is(err, analysis.ErrMissingJobDescription):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "enter the job description as comma-separated skills",
		})
	case errors.Is(err, analysis.ErrUnknownProfile):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    err.Error(),
			"profiles": h.analyzer.Catalog().Titles(),
		})
	case errors.As(err, &extractionErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":    "could not read the uploaded document",
			"document": extractionErr.Document,
			"detail":   extractionErr.Err.Error(),
		})
	case errors.Is(err, recognizer.ErrRecognition):
		logger.Ctx(c.UserContext()).Error().Err(err).Msg("entity recognition failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "entity recognition is unavailable",
		})
	default:
		return err
	}
}

func unsupportedFile(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":           "unsupported file type",
		"file":            name,
		"supported_types": supportedTypes,
	})
}

// uploadDocument defers reading the upload until the analyzer reaches it.
func uploadDocument(fh *multipart.FileHeader, format extract.Format) analysis.Document {
	return analysis.Document{
		Name:   fh.Filename,
		Format: format,
		Fetch: func(context.Context) ([]byte, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open uploaded file: %w", err)
			}
			defer f.Close()
			return io.ReadAll(f)
		},
	}
}

func wantsMarkdown(c *fiber.Ctx) bool {
	return c.Query("format") == "markdown"
}

func sendMarkdown(c *fiber.Ctx, body string) error {
	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(body)
}
