// Package server is the thin HTTP surface over the course and chat pipelines.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"course-generator/internal/apperr"
	"course-generator/internal/helper"
	"course-generator/internal/models"
)

// CourseService runs the generation pipeline.
type CourseService interface {
	GenerateStructure(ctx context.Context, filenames []string) (*models.CourseStructure, error)
	GenerateChapter(ctx context.Context, title string, topics []string) (*models.ChapterMaterial, error)
}

// ChatService answers grounded questions.
type ChatService interface {
	Answer(ctx context.Context, query string) (string, error)
}

type Server struct {
	course    CourseService
	chat      ChatService
	uploadDir string
}

func New(course CourseService, chat ChatService, uploadDir string) *Server {
	return &Server{course: course, chat: chat, uploadDir: uploadDir}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/", s.handleRoot)
	e.GET("/health", s.handleHealth)
	e.POST("/upload", s.handleUpload)
	e.POST("/generate-structure", s.handleGenerateStructure)
	e.POST("/generate-chapter", s.handleGenerateChapter)
	e.POST("/chat", s.handleChat)
}

// RequestLogger emits one zerolog event per handled request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, _ := helper.GenerateUUID()
			start := time.Now()
			err := next(c)
			log.Info().
				Str("request_id", id).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("elapsed", time.Since(start)).
				Msg("request handled")
			return err
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError logs the full cause server-side and returns the category status
// with a human-readable summary. The process never dies for one bad request.
func writeError(c echo.Context, err error) error {
	log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	return c.JSON(httpStatus(err), errorResponse{Error: err.Error()})
}

func httpStatus(err error) int {
	switch apperr.CodeOf(err) {
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeValidation, apperr.CodePrecondition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Course Generator API is running",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Backend is running properly",
	})
}
