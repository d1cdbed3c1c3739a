package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"course-generator/internal/apperr"
)

const copyBufferSize = 1 << 20

type uploadResponse struct {
	Message   string   `json:"message"`
	Filenames []string `json:"filenames"`
}

func (s *Server) handleUpload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, apperr.Wrap(apperr.CodeValidation, "invalid multipart form", err))
	}

	var saved []string
	for _, fh := range form.File["files"] {
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
			log.Warn().Str("file", fh.Filename).Msg("skipping non-PDF upload")
			continue
		}
		name := filepath.Base(fh.Filename)
		if err := s.saveUpload(fh, filepath.Join(s.uploadDir, name)); err != nil {
			return writeError(c, err)
		}
		saved = append(saved, name)
		log.Info().Str("file", name).Msg("upload saved")
	}

	if len(saved) == 0 {
		return writeError(c, apperr.New(apperr.CodeValidation, "no valid PDF files uploaded"))
	}
	return c.JSON(http.StatusOK, uploadResponse{Message: "Files uploaded successfully", Filenames: saved})
}

// saveUpload streams the part to disk in fixed-size copies. Name collisions
// overwrite the previous upload.
func (s *Server) saveUpload(fh *multipart.FileHeader, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to create upload directory", err)
	}
	src, err := fh.Open()
	if err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to read uploaded file", err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to create upload file", err)
	}
	defer dst.Close()

	if _, err := io.CopyBuffer(dst, src, make([]byte, copyBufferSize)); err != nil {
		return apperr.Wrap(apperr.CodeIO, "failed to write upload file", err)
	}
	return nil
}

func (s *Server) handleGenerateStructure(c echo.Context) error {
	var filenames []string
	if err := c.Bind(&filenames); err != nil {
		return writeError(c, apperr.Wrap(apperr.CodeValidation, "invalid request body", err))
	}

	structure, err := s.course.GenerateStructure(c.Request().Context(), filenames)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, structure)
}

type chapterRequest struct {
	ChapterTitle string   `json:"chapter_title"`
	Topics       []string `json:"topics"`
}

func (s *Server) handleGenerateChapter(c echo.Context) error {
	var req chapterRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Wrap(apperr.CodeValidation, "invalid request body", err))
	}

	material, err := s.course.GenerateChapter(c.Request().Context(), req.ChapterTitle, req.Topics)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, material)
}

type chatRequest struct {
	Query string `json:"query"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Wrap(apperr.CodeValidation, "invalid request body", err))
	}

	answer, err := s.chat.Answer(c.Request().Context(), req.Query)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, chatResponse{Answer: answer})
}
