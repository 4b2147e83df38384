package ui

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"ballistix/adapters/excel"
	"ballistix/app"
	"ballistix/domain/ballistics"
	"ballistix/internal/config"
	"ballistix/internal/errors"

	"github.com/gin-gonic/gin"
)

// analyzeRequest is the body of POST /api/analyze. Exactly one of Shots or
// Velocities is used; Velocities selects single-ammo mode.
type analyzeRequest struct {
	Shots      []ballistics.ShotEntry       `json:"shots"`
	Velocities []float64                    `json:"velocities"`
	Projectile *ballistics.ProjectileParams `json:"projectile"`
	Preset     string                       `json:"preset"`
	SkipReport bool                         `json:"skip_report"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "threshold": s.service.Threshold()})
}

func (s *Server) handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": s.presets.Presets(), "default": config.DefaultPresetName})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput("malformed request body: "+err.Error()))
		return
	}
	if len(req.Shots) > 0 && len(req.Velocities) > 0 {
		s.respondError(c, errors.InvalidInput("send either shots or velocities, not both"))
		return
	}

	params, err := s.presets.Resolve(req.Preset, req.Projectile)
	if err != nil {
		s.respondError(c, err)
		return
	}

	shots := ballistics.ResolveEntries(req.Shots, params)
	if len(req.Velocities) > 0 {
		shots = ballistics.FromVelocities(req.Velocities, params)
	}

	result, err := s.service.Analyze(c.Request.Context(), app.AppraisalRequest{
		Shots:      shots,
		Params:     params,
		SkipReport: req.SkipReport,
	})
	s.respondResult(c, result, err)
}

func (s *Server) handleAnalyzeUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		s.respondError(c, errors.InvalidInput("multipart field \"file\" is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(c, errors.InvalidInput("failed to read upload: "+err.Error()))
		return
	}

	var explicit *ballistics.ProjectileParams
	if c.PostForm("diameter_mm") != "" || c.PostForm("weight_grams") != "" {
		p, err := formProjectile(c)
		if err != nil {
			s.respondError(c, err)
			return
		}
		explicit = &p
	}
	params, err := s.presets.Resolve(c.PostForm("preset"), explicit)
	if err != nil {
		s.respondError(c, err)
		return
	}

	shots, err := excel.NewUploadShotReader(header.Filename, content).ReadShots(params)
	if err != nil {
		s.respondError(c, err)
		return
	}

	skipReport, _ := strconv.ParseBool(c.DefaultPostForm("skip_report", "false"))
	result, err := s.service.Analyze(c.Request.Context(), app.AppraisalRequest{
		Shots:      shots,
		Params:     params,
		SkipReport: skipReport,
	})
	s.respondResult(c, result, err)
}

// respondResult maps an appraisal outcome to a response. An empty batch is a 422
// that still carries the insufficient-data result. A result JSON cannot represent
// (NaN or Inf) is an internal error rather than an empty body.
func (s *Server) respondResult(c *gin.Context, result *app.AppraisalResult, err error) {
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !result.Verdict.Finite() {
		s.respondError(c, errors.InternalError("appraisal "+result.AnalysisID.String()+" produced non-finite statistics"))
		return
	}
	if !result.Verdict.Determined() {
		appErr := errors.InsufficientSample("at least one shot is required for a determination")
		c.JSON(errors.HTTPStatus(appErr.Code), gin.H{
			"error":  gin.H{"code": appErr.Code, "message": appErr.Message},
			"result": result,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": err.Error()}})
}

func formProjectile(c *gin.Context) (ballistics.ProjectileParams, error) {
	diameter, err := parseFormFloat(c.PostForm("diameter_mm"))
	if err != nil {
		return ballistics.ProjectileParams{}, errors.InvalidInput("diameter_mm: " + err.Error())
	}
	weight, err := parseFormFloat(c.PostForm("weight_grams"))
	if err != nil {
		return ballistics.ProjectileParams{}, errors.InvalidInput("weight_grams: " + err.Error())
	}
	return ballistics.ProjectileParams{DiameterMm: diameter, WeightGrams: weight}, nil
}

func parseFormFloat(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.InvalidInput("value is required")
	}
	return strconv.ParseFloat(raw, 64)
}
