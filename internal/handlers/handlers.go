// Package handlers exposes the dashboard over HTTP: the page itself, the
// summary JSON API, the rendered chart images and the workbook export.
// Every figure variant is rendered once at construction; request handlers
// only look up bytes.
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/charts"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/export"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/ui"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/ui/assets"
)

// DashboardHandler serves everything derived from the loaded dataset.
type DashboardHandler struct {
	summary     *models.Summary
	departments []models.Department
	logger      *slog.Logger

	page    []byte
	figures map[string][]byte
}

// NewDashboardHandler renders every chart variant and the dashboard page
// up front. A figure that cannot be rendered fails construction.
func NewDashboardHandler(summary *models.Summary, departments []models.Department, logger *slog.Logger) (*DashboardHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	h := &DashboardHandler{
		summary:     summary,
		departments: departments,
		logger:      logger.With(slog.String("component", "handlers")),
		figures:     make(map[string][]byte),
	}

	if err := h.renderFigures(); err != nil {
		return nil, err
	}
	if err := h.renderPage(); err != nil {
		return nil, err
	}

	return h, nil
}

// Routes returns the full route tree.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.requestLogger)

	r.Get("/", h.HandleDashboard)
	r.Get("/healthz", h.HandleHealth)
	r.Handle("/static/*", http.FileServer(http.FS(assets.StaticFS())))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.HandleSummary)
		r.Get("/departments", h.HandleDepartments)
		r.Get("/months", h.HandleMonths)
		r.Get("/ages", h.HandleAges)
		r.Get("/partner-ages", h.HandlePartnerAges)
		r.Get("/name-origins", h.HandleNameOrigins)
		r.Get("/name-nationality", h.HandleNameNationality)
		r.Get("/name-usage", h.HandleNameUsage)
		r.Get("/recognition", h.HandleRecognition)
		r.Get("/multiple-births", h.HandleMultipleBirths)
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/departments.svg", h.HandleDepartmentsChart)
		r.Get("/months.svg", h.HandleMonthsChart)
		r.Get("/ages.svg", h.figureHandler("ages"))
		r.Get("/partner-ages.svg", h.figureHandler("partner-ages"))
		r.Get("/name-origins.svg", h.figureHandler("name-origins"))
		r.Get("/name-nationality.svg", h.figureHandler("name-nationality"))
		r.Get("/name-usage.svg", h.figureHandler("name-usage"))
		r.Get("/recognition.svg", h.figureHandler("recognition"))
		r.Get("/multiple-births.svg", h.figureHandler("multiple-births"))
	})

	r.Get("/export/births-2019.xlsx", h.HandleExport)

	return r
}

// HandleDashboard serves the pre-rendered dashboard page.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(h.page)
}

// HandleHealth reports the loaded dataset size.
func (h *DashboardHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "ok",
		"year":   h.summary.Year,
		"births": h.summary.TotalBirths,
	})
}

// HandleSummary serves every summary table in one document.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary)
}

func (h *DashboardHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.Departments)
}

func (h *DashboardHandler) HandleMonths(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.Months)
}

func (h *DashboardHandler) HandleAges(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.Ages)
}

func (h *DashboardHandler) HandlePartnerAges(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.PartnerAges)
}

func (h *DashboardHandler) HandleNameOrigins(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.NameOrigins)
}

func (h *DashboardHandler) HandleNameNationality(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.NameNationality)
}

func (h *DashboardHandler) HandleNameUsage(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.NameUsage)
}

func (h *DashboardHandler) HandleRecognition(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.Recognition)
}

func (h *DashboardHandler) HandleMultipleBirths(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.summary.MultipleBirths)
}

// HandleDepartmentsChart serves the map variant selected by ?scale=.
// Unknown values fall back to the absolute series.
func (h *DashboardHandler) HandleDepartmentsChart(w http.ResponseWriter, r *http.Request) {
	scale := charts.ParseScale(r.URL.Query().Get("scale"))
	h.serveFigure(w, charts.FigureKey("departments", string(scale)))
}

// HandleMonthsChart serves the bar variant selected by ?value= and ?axis=.
func (h *DashboardHandler) HandleMonthsChart(w http.ResponseWriter, r *http.Request) {
	value := charts.ParseBarValue(r.URL.Query().Get("value"))
	axis := charts.ParseBarAxis(r.URL.Query().Get("axis"))
	h.serveFigure(w, charts.FigureKey("months", string(value), string(axis)))
}

// HandleExport streams the workbook. The file is built per request; the
// underlying tables never change, but the workbook is small.
func (h *DashboardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.Write(h.summary, &buf); err != nil {
		h.logger.Error("error building workbook", "error", err)
		http.Error(w, "Error processing request", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="births-2019.xlsx"`)
	w.Write(buf.Bytes())
}

func (h *DashboardHandler) figureHandler(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveFigure(w, key)
	}
}

func (h *DashboardHandler) serveFigure(w http.ResponseWriter, key string) {
	figure, ok := h.figures[key]
	if !ok {
		http.Error(w, "Unknown chart", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(figure)
}

// requestLogger logs every request with its processing time.
func (h *DashboardHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Info("request processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(startTime))
	})
}

// renderFigures builds every chart variant once.
func (h *DashboardHandler) renderFigures() error {
	for _, figure := range charts.Catalog(h.summary, h.departments) {
		p, err := figure.Build()
		if err != nil {
			return fmt.Errorf("error building %s figure: %w", figure.Key, err)
		}
		if err := h.storeFigure(figure.Key, p, figure.Width, figure.Height); err != nil {
			return err
		}
	}
	return nil
}

func (h *DashboardHandler) storeFigure(key string, p *plot.Plot, width, height vg.Length) error {
	var buf bytes.Buffer
	if err := charts.WriteSVG(p, width, height, &buf); err != nil {
		return fmt.Errorf("error rendering %s figure: %w", key, err)
	}
	h.figures[key] = buf.Bytes()
	return nil
}

// renderPage assembles the dashboard document around the cached figures.
func (h *DashboardHandler) renderPage() error {
	page := ui.Dashboard(ui.DashboardData{
		Year:        h.summary.Year,
		TotalBirths: h.summary.TotalBirths,
		Departments: len(h.departments),
		Charts: ui.ChartSet{
			DepartmentsAbsolute:          h.figure("departments", string(charts.ScaleAbsolute)),
			DepartmentsLogarithmic:       h.figure("departments", string(charts.ScaleLogarithmic)),
			MonthsAbsoluteBirths:         h.figure("months", string(charts.BarAbsolute), string(charts.AxisBirths)),
			MonthsAbsoluteProcreations:   h.figure("months", string(charts.BarAbsolute), string(charts.AxisProcreations)),
			MonthsNormalizedBirths:       h.figure("months", string(charts.BarNormalized), string(charts.AxisBirths)),
			MonthsNormalizedProcreations: h.figure("months", string(charts.BarNormalized), string(charts.AxisProcreations)),
			Ages:                         h.figure("ages"),
			PartnerAges:                  h.figure("partner-ages"),
			NameOrigins:                  h.figure("name-origins"),
			NameNationality:              h.figure("name-nationality"),
			NameUsage:                    h.figure("name-usage"),
			Recognition:                  h.figure("recognition"),
			MultipleBirths:               h.figure("multiple-births"),
		},
	})

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("error rendering dashboard page: %w", err)
	}
	h.page = buf.Bytes()
	return nil
}

func (h *DashboardHandler) figure(parts ...string) string {
	return string(h.figures[charts.FigureKey(parts...)])
}
