// Package server implements the prediction web application: the survey
// form, the predict endpoint, and health checks.
package server

import (
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/cache"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/database"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/model"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/monitoring"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/places"
)

// Handler serves the prediction web application.
type Handler struct {
	service   *database.PredictionService
	repo      *database.Repository
	db        *database.DB
	templates *template.Template
	metrics   *monitoring.Metrics
	logger    *monitoring.Logger
	cache     *cache.Cache
}

// NewHandler creates the web handler.
func NewHandler(service *database.PredictionService, repo *database.Repository, db *database.DB, templates *template.Template, metrics *monitoring.Metrics, logger *monitoring.Logger) *Handler {
	return &Handler{
		service:   service,
		repo:      repo,
		db:        db,
		templates: templates,
		metrics:   metrics,
		logger:    logger,
		cache:     cache.NewCache(10 * time.Minute),
	}
}

// FormField is one measure input on the survey form.
type FormField struct {
	ID    string
	Label string
}

// CategoryGroup is the form fields for one measure category.
type CategoryGroup struct {
	Name   string
	Fields []FormField
}

// resultView carries a rendered prediction back to the form page.
type resultView struct {
	Percent float64
}

type indexData struct {
	Categories []CategoryGroup
	Regions    []string
	Result     *resultView
}

// modelMeasureIDs returns the canonical measure inputs of the model,
// excluding the population and region features.
func modelMeasureIDs() map[string]bool {
	regions := make(map[string]bool)
	for _, region := range places.StateRegions {
		regions[region] = true
	}

	ids := make(map[string]bool)
	for _, name := range places.ModelFeatures {
		if name == places.ScaledPopulationColumn || regions[name] {
			continue
		}
		ids[model.CanonicalName(name)] = true
	}
	return ids
}

// regionNames returns the sorted distinct region categories.
func regionNames() []string {
	set := make(map[string]bool)
	for _, region := range places.StateRegions {
		set[region] = true
	}
	names := make([]string, 0, len(set))
	for region := range set {
		names = append(names, region)
	}
	sort.Strings(names)
	return names
}

// formCategories builds the grouped form fields from the measure reference
// table, falling back to the built-in definitions when the table has not
// been seeded. The grouping is cached since the reference data changes
// only on reseeding.
func (h *Handler) formCategories(c *gin.Context) []CategoryGroup {
	if cached, ok := h.cache.Get("form_categories"); ok {
		return cached.([]CategoryGroup)
	}

	wanted := modelMeasureIDs()

	grouped, err := h.repo.MeasuresByCategory(c.Request.Context())
	if err != nil || len(grouped) == 0 {
		grouped = make(map[string][]database.Measure)
		for _, def := range places.MeasureDefinitions {
			grouped[def.Category] = append(grouped[def.Category], database.Measure{
				MeasureID: def.MeasureID,
				Category:  def.Category,
				ShortText: def.ShortText,
			})
		}
	}

	categories := make([]string, 0, len(grouped))
	for name := range grouped {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	out := make([]CategoryGroup, 0, len(categories))
	for _, name := range categories {
		group := CategoryGroup{Name: name}
		for _, m := range grouped[name] {
			if wanted[m.MeasureID] {
				group.Fields = append(group.Fields, FormField{ID: m.MeasureID, Label: m.ShortText})
			}
		}
		if len(group.Fields) > 0 {
			out = append(out, group)
		}
	}

	h.cache.Set("form_categories", out)
	return out
}

// Index renders the survey form.
func (h *Handler) Index(c *gin.Context) {
	h.render(c, http.StatusOK, indexData{
		Categories: h.formCategories(c),
		Regions:    regionNames(),
	})
}

// Predict parses the submitted form, evaluates the stored model, and
// re-renders the form with the predicted percentage.
func (h *Handler) Predict(c *gin.Context) {
	start := time.Now()

	features, err := h.parseForm(c)
	if err != nil {
		h.metrics.RecordPredictionFailure(string(apperrors.KindOf(err)))
		h.renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	prediction, err := h.service.Predict(c.Request.Context(), features)
	if err != nil {
		h.metrics.RecordPredictionFailure(string(apperrors.KindOf(err)))
		status := http.StatusInternalServerError
		switch apperrors.KindOf(err) {
		case apperrors.KindSchema, apperrors.KindRange:
			status = http.StatusBadRequest
		case apperrors.KindEmptyOrDuplicate:
			status = http.StatusServiceUnavailable
		}
		h.renderError(c, status, err.Error())
		return
	}

	h.metrics.RecordPrediction()
	h.logger.PredictionLogger(c.ClientIP(), prediction, time.Since(start))

	h.render(c, http.StatusOK, indexData{
		Categories: h.formCategories(c),
		Regions:    regionNames(),
		Result:     &resultView{Percent: prediction * 100},
	})
}

// parseForm converts the submitted percentages, population, and region
// into the model's feature map.
func (h *Handler) parseForm(c *gin.Context) (map[string]float64, error) {
	features := make(map[string]float64)

	for id := range modelMeasureIDs() {
		raw := c.PostForm(id)
		if raw == "" {
			return nil, apperrors.NullValue("measure %s is required", id)
		}
		percent, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperrors.TypeMismatch("measure %s must be a number, got %q", id, raw)
		}
		if percent <= 0 || percent >= 100 {
			return nil, apperrors.Range("measure %s must be between 0 and 100 exclusive, got %g", id, percent)
		}
		features[id] = percent / 100
	}

	rawPop := c.PostForm("population")
	if rawPop == "" {
		return nil, apperrors.NullValue("population is required")
	}
	population, err := strconv.ParseFloat(rawPop, 64)
	if err != nil {
		return nil, apperrors.TypeMismatch("population must be a number, got %q", rawPop)
	}
	scaled, err := h.service.ScalePopulation(c.Request.Context(), population)
	if err != nil {
		return nil, err
	}
	features[model.CanonicalName(places.ScaledPopulationColumn)] = scaled

	region := c.PostForm("region")
	regions := regionNames()
	valid := false
	for _, name := range regions {
		if name == region {
			valid = true
		}
	}
	if !valid {
		return nil, apperrors.Range("region %q is not one of %v", region, regions)
	}
	for _, name := range regions {
		if name == places.ReferenceRegion {
			continue
		}
		indicator := 0.0
		if name == region {
			indicator = 1.0
		}
		features[model.CanonicalName(name)] = indicator
	}

	return features, nil
}

// Health reports server and database health.
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  "database unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) render(c *gin.Context, status int, data indexData) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(c.Writer, "index.html", data); err != nil {
		h.logger.Error("rendering index template", "error", err)
	}
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(c.Writer, "error.html", gin.H{"Message": message}); err != nil {
		h.logger.Error("rendering error template", "error", err)
	}
}
