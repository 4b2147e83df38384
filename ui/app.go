package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ballistix/app"
	"ballistix/domain/ballistics"
	"ballistix/internal/config"
	"ballistix/internal/errors"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// customPreset is the select value that switches the form to typed parameters
const customPreset = "custom"

// App is the server-rendered data entry and results UI
type App struct {
	router    *chi.Mux
	service   *app.AppraisalService
	presets   *config.PresetStore
	templates *template.Template
}

// formView is the data behind the entry form
type formView struct {
	Presets        []config.Preset
	Preset         string
	DiameterMm     string
	WeightGrams    string
	Velocities     string
	GenerateReport bool
	Error          string
	Threshold      float64
}

// resultView is the data behind the results page
type resultView struct {
	Form   formView
	Result *app.AppraisalResult
	Report template.HTML
}

// NewApp creates the UI application
func NewApp(service *app.AppraisalService, presets *config.PresetStore) (*App, error) {
	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		presets:   presets,
		templates: templates,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/analyze", a.handleAnalyze)
}

// Handler returns the HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) newForm() formView {
	return formView{
		Presets:        a.presets.Presets(),
		Preset:         config.DefaultPresetName,
		DiameterMm:     formatParam(ballistics.DefaultProjectile.DiameterMm),
		WeightGrams:    formatParam(ballistics.DefaultProjectile.WeightGrams),
		GenerateReport: true,
		Threshold:      a.service.Threshold(),
	}
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.render(w, http.StatusOK, "index.html", a.newForm())
}

func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := a.newForm()
	form.Preset = r.PostFormValue("preset")
	form.DiameterMm = strings.TrimSpace(r.PostFormValue("diameter_mm"))
	form.WeightGrams = strings.TrimSpace(r.PostFormValue("weight_grams"))
	form.Velocities = r.PostFormValue("velocities")
	form.GenerateReport = r.PostFormValue("generate_report") != ""

	result, err := a.analyzeForm(r, form)
	if err != nil {
		form.Error = err.Error()
		a.render(w, errors.HTTPStatus(errors.GetCode(err)), "index.html", form)
		return
	}

	view := resultView{Form: form, Result: result}
	if result.Report != "" && !result.ReportFailed {
		view.Report = renderMarkdown(result.Report)
	}
	a.render(w, http.StatusOK, "result.html", view)
}

func (a *App) analyzeForm(r *http.Request, form formView) (*app.AppraisalResult, error) {
	params, err := a.formParams(form)
	if err != nil {
		return nil, err
	}
	velocities, err := parseVelocities(form.Velocities)
	if err != nil {
		return nil, err
	}
	return a.service.AnalyzeVelocities(r.Context(), velocities, params, !form.GenerateReport)
}

// formParams uses the selected preset, or the typed diameter and weight when the
// preset is set to custom
func (a *App) formParams(form formView) (ballistics.ProjectileParams, error) {
	if form.Preset != customPreset {
		return a.presets.Resolve(form.Preset, nil)
	}
	diameter, err := strconv.ParseFloat(form.DiameterMm, 64)
	if err != nil {
		return ballistics.ProjectileParams{}, errors.InvalidInput(fmt.Sprintf("diameter %q is not a number", form.DiameterMm))
	}
	weight, err := strconv.ParseFloat(form.WeightGrams, 64)
	if err != nil {
		return ballistics.ProjectileParams{}, errors.InvalidInput(fmt.Sprintf("weight %q is not a number", form.WeightGrams))
	}
	explicit := ballistics.ProjectileParams{DiameterMm: diameter, WeightGrams: weight}
	return a.presets.Resolve(form.Preset, &explicit)
}

// parseVelocities accepts readings separated by commas, semicolons or whitespace
func parseVelocities(raw string) ([]float64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	velocities := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("reading %d: %q is not a number", i+1, f))
		}
		velocities = append(velocities, v)
	}
	return velocities, nil
}
