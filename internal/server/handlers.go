package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/export"
	"github.com/frherrer/tcgen/internal/generator"
)

// generateForm accepts multipart, urlencoded or JSON bodies. Unset
// optional fields fall back to the generation config.
type generateForm struct {
	Requirements string   `form:"requirements" json:"requirements"`
	Format       string   `form:"format" json:"format"`
	Model        string   `form:"model" json:"model"`
	Estimate     *bool    `form:"estimate" json:"estimate"`
	Count        *int     `form:"count" json:"count"`
	Temperature  *float64 `form:"temperature" json:"temperature"`
}

type rawRequest struct {
	RawOutput string `json:"raw_output" binding:"required"`
	Format    string `json:"format"`
	// Table selects "cases" (default) or "steps" for exports.
	Table string `json:"table"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) generate(c *gin.Context) {
	var form generateForm
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, err)
		return
	}

	text, err := s.requirements(c, form.Requirements)
	if err != nil {
		s.fail(c, err)
		return
	}

	req, err := s.request(form, text)
	if err != nil {
		s.fail(c, err)
		return
	}

	sess, err := s.gen.Generate(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: newSessionView(sess)})
}

func (s *Server) tokens(c *gin.Context) {
	var form generateForm
	if err := c.ShouldBind(&form); err != nil {
		s.fail(c, err)
		return
	}
	req, err := s.request(form, form.Requirements)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: newTokensView(s.gen.Budget(req))})
}

func (s *Server) parse(c *gin.Context) {
	var body rawRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, err)
		return
	}
	format, err := s.format(body.Format)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    newSessionView(generator.ParseSession(body.RawOutput, format)),
	})
}

func (s *Server) export(c *gin.Context) {
	kind := c.Param("kind")
	contentType, ok := export.ContentTypes[kind]
	if !ok {
		s.fail(c, domain.NewError(domain.KindExport, kind, "unknown export format (want csv, xlsx or txt)", nil))
		return
	}

	var body rawRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, err)
		return
	}
	format, err := s.format(body.Format)
	if err != nil {
		s.fail(c, err)
		return
	}
	sess := generator.ParseSession(body.RawOutput, format)

	var (
		buf  bytes.Buffer
		stem = export.CasesFileStem
	)
	switch body.Table {
	case "", "cases":
		err = export.Write(&buf, kind, sess)
	case "steps":
		stem = export.StepsFileStem
		err = export.WriteSteps(&buf, kind, sess.Steps)
	default:
		err = domain.NewError(domain.KindInput, "table", fmt.Sprintf("unknown table %q (want cases or steps)", body.Table), nil)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, stem, kind))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// requirements returns the uploaded document's text when a file is
// attached, otherwise the pasted text.
func (s *Server) requirements(c *gin.Context, pasted string) (string, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return pasted, nil
	}
	if err != nil {
		return "", err
	}

	f, err := fh.Open()
	if err != nil {
		return "", domain.NewError(domain.KindExtract, fh.Filename, "failed to open upload", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", domain.NewError(domain.KindExtract, fh.Filename, "failed to read upload", err)
	}
	s.log.Debugf("Received %s (%d bytes)", fh.Filename, len(data))
	return s.extractor.Extract(fh.Filename, data)
}

func (s *Server) request(form generateForm, text string) (generator.Request, error) {
	req, err := generator.RequestFromConfig(s.cfg, text)
	if err != nil {
		return req, err
	}
	if form.Format != "" {
		if req.Format, err = s.format(form.Format); err != nil {
			return req, err
		}
	}
	if form.Model != "" {
		req.ModelID = form.Model
	}
	if form.Estimate != nil {
		req.Estimate = *form.Estimate
	}
	if form.Count != nil {
		req.Count = *form.Count
	}
	if form.Temperature != nil {
		req.Temperature = *form.Temperature
	}
	return req, nil
}

// format parses a format name; empty means the configured default.
func (s *Server) format(name string) (domain.Format, error) {
	if name == "" {
		name = s.cfg.Generation.Format
	}
	f, err := domain.ParseFormat(name)
	if err != nil {
		return "", domain.NewError(domain.KindInput, "format", err.Error(), nil)
	}
	return f, nil
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	resp := APIResponse{Success: false, Error: err.Error(), Kind: domain.KindOf(err)}
	var ge *domain.GenError
	if errors.As(err, &ge) {
		resp.Hint = ge.Suggestion
	}
	if status >= http.StatusInternalServerError {
		s.log.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, resp)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	switch domain.KindOf(err) {
	case domain.KindInput, domain.KindExtract, domain.KindExport:
		return http.StatusBadRequest
	case domain.KindUnsupportedModel:
		return http.StatusUnprocessableEntity
	case domain.KindTransport:
		return http.StatusBadGateway
	case "":
		// binding errors
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
