package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jsonprof/app"
	"jsonprof/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze profiles the request body. Query parameters:
// z_threshold overrides the configured threshold, format is report, json
// (default) or yaml.
func (s *Server) handleAnalyze(c *gin.Context) {
	service := s.service
	if raw := c.Query("z_threshold"); raw != "" {
		z, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.respondError(c, errors.InvalidInput("z_threshold must be a number"))
			return
		}
		if service, err = service.WithThreshold(z); err != nil {
			s.respondError(c, err)
			return
		}
	}

	format, err := app.ParseFormat(c.DefaultQuery("format", string(app.FormatJSON)))
	if err != nil {
		s.respondError(c, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
				"code":  errors.CodeInvalidInput,
			})
			return
		}
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	run, err := service.AnalyzeBytes(c.Request.Context(), body)
	if err != nil {
		s.respondError(c, err)
		return
	}

	switch format {
	case app.FormatText:
		c.String(http.StatusOK, run.Analysis.Report)
	case app.FormatYAML:
		out, err := app.Render(run, app.FormatYAML)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", []byte(out))
	default:
		c.JSON(http.StatusOK, app.Document(run, true))
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func statusForCode(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeParseFailure:
		return http.StatusBadRequest
	case errors.CodeDepthExceeded:
		return http.StatusUnprocessableEntity
	case errors.CodeUnsupportedSource:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
