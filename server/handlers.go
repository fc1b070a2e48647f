package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai_content_generator/generator"
	"ai_content_generator/render"
)

const excerptRunes = 160

type optionsResp struct {
	Platforms           []generator.Platform `json:"platforms"`
	ShortVideoPlatforms []generator.Platform `json:"short_video_platforms"`
	Tones               []generator.Tone     `json:"tones"`
	Lengths             []generator.Length   `json:"lengths"`
	Audiences           []generator.Audience `json:"audiences"`
	Models              []string             `json:"models"`
	DefaultModel        string               `json:"default_model"`
	DefaultTemperature  float64              `json:"default_temperature"`
	TemperatureStep     float64              `json:"temperature_step"`
}

type generateReq struct {
	generator.Brief
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
}

type promptResp struct {
	System        string   `json:"system"`
	User          string   `json:"user"`
	PlatformClass string   `json:"platform_class"`
	Sections      []string `json:"sections"`
}

type historyItem struct {
	generator.HistoryEntry
	Label   string `json:"label"`
	HTML    string `json:"html"`
	Excerpt string `json:"excerpt"`
}

type generateResp struct {
	SessionID string      `json:"session_id"`
	Entry     historyItem `json:"entry"`
}

type historyResp struct {
	SessionID string        `json:"session_id"`
	Entries   []historyItem `json:"entries"`
}

type errorResp struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, optionsResp{
		Platforms:           generator.Platforms(),
		ShortVideoPlatforms: generator.ShortVideoPlatforms(),
		Tones:               generator.Tones(),
		Lengths:             generator.Lengths(),
		Audiences:           generator.Audiences(),
		Models:              s.cfg.Generation.Models,
		DefaultModel:        s.cfg.Generation.DefaultModel,
		DefaultTemperature:  s.cfg.Generation.DefaultTemperature,
		TemperatureStep:     generator.TemperatureStep,
	})
}

// handlePrompt compiles a brief without calling the model.
func (s *Server) handlePrompt(c *gin.Context) {
	var brief generator.Brief
	if err := c.ShouldBindJSON(&brief); err != nil {
		c.JSON(http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	if err := checkBrief(brief); err != nil {
		writeError(c, err)
		return
	}
	p := generator.Compile(brief)
	c.JSON(http.StatusOK, promptResp{
		System:        p.System,
		User:          p.User,
		PlatformClass: generator.Classify(brief.Platform).String(),
		Sections:      generator.Sections(),
	})
}

func (s *Server) handleSessionCreate(c *gin.Context) {
	sess := s.store.Create()
	s.logger.Info("session created", zap.String("session_id", sess.ID))
	c.JSON(http.StatusCreated, historyResp{SessionID: sess.ID, Entries: []historyItem{}})
}

func (s *Server) handleGenerate(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	if err := checkBrief(req.Brief); err != nil {
		writeError(c, err)
		return
	}
	params, err := s.params(req)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()
	entry, err := sess.Generate(ctx, req.Brief, params)
	if err != nil {
		writeError(c, err)
		return
	}
	item, err := s.item(1, entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, generateResp{SessionID: sess.ID, Entry: item})
}

func (s *Server) handleHistory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	entries := sess.List()
	items := make([]historyItem, 0, len(entries))
	for i, e := range entries {
		item, err := s.item(i+1, e)
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
			return
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, historyResp{SessionID: sess.ID, Entries: items})
}

func (s *Server) handleSessionEnd(c *gin.Context) {
	if !s.store.End(c.Param("id")) {
		c.JSON(http.StatusNotFound, errorResp{Error: "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Helpers ---

func (s *Server) session(c *gin.Context) (*generator.Session, bool) {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorResp{Error: "session not found"})
	}
	return sess, ok
}

// params fills in configured defaults and snaps the temperature to its grid.
func (s *Server) params(req generateReq) (generator.Params, error) {
	p := s.cfg.DefaultParams()
	if req.Model != "" {
		if !s.cfg.AllowsModel(req.Model) {
			return generator.Params{}, &generator.ValidationError{
				Field:   "model",
				Message: "modelo não disponível: " + req.Model,
				Err:     generator.ErrInvalidOption,
			}
		}
		p.Model = req.Model
	}
	if req.Temperature != nil {
		p.Temperature = generator.QuantizeTemperature(*req.Temperature)
	}
	return p, nil
}

func (s *Server) item(index int, e generator.HistoryEntry) (historyItem, error) {
	html, err := s.renderer.HTML(e.Text)
	if err != nil {
		return historyItem{}, err
	}
	return historyItem{
		HistoryEntry: e,
		Label:        render.Label(index, e),
		HTML:         html,
		Excerpt:      render.Excerpt(e.Text, excerptRunes),
	}, nil
}

func checkBrief(b generator.Brief) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return b.CheckOptions()
}

func writeError(c *gin.Context, err error) {
	var vErr *generator.ValidationError
	var genErr *generator.GenerationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, errorResp{Error: vErr.Message, Field: vErr.Field})
	case errors.As(err, &genErr):
		c.JSON(http.StatusBadGateway, errorResp{Error: genErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
	}
}
