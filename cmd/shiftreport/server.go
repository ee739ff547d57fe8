package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/shiftreport/internal/history"
	"github.com/Simplici0/shiftreport/internal/lines"
	"github.com/Simplici0/shiftreport/internal/pricing"
	"github.com/Simplici0/shiftreport/internal/report"
	"github.com/Simplici0/shiftreport/internal/service"
	"github.com/Simplici0/shiftreport/internal/settings"
	"github.com/Simplici0/shiftreport/internal/validate"
	"github.com/Simplici0/shiftreport/internal/worker"
)

type server struct {
	store   *settings.Store
	svc     *service.Service
	archive *history.Archive
	logger  *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type lineOptions struct {
	Line     lines.ID `json:"line"`
	Metered  bool     `json:"metered"`
	RunTypes []string `json:"run_types"`
}

type generateResponse struct {
	Path string `json:"path"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/settings", s.handleSettingsShow)
	r.Post("/settings/wage", s.handleWageSubmit)
	r.Post("/settings/threshold", s.handleThresholdSubmit)
	r.Post("/settings/prices/{line}", s.handleMachinePriceSubmit)
	r.Post("/settings/handpacks", s.handleHandpackUpsert)
	r.Delete("/settings/handpacks/{name}", s.handleHandpackDelete)
	r.Get("/lines", s.handleLines)
	r.Post("/reports/preview", s.handleReportPreview)
	r.Post("/reports", s.handleReportGenerate)
	r.Get("/reports", s.handleReportsList)
	r.Get("/reports/{id}", s.handleReportDetail)
	return r
}

func (s *server) handleSettingsShow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *server) handleWageSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	wage, err := validate.PositiveFloat(r.PostForm.Get("wage"), "wage")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetWage(wage); err != nil {
		s.storeFailed(w, "set wage", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *server) handleThresholdSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	threshold, err := validate.PositiveInt(r.PostForm.Get("threshold"), "threshold")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetQuantityThreshold(threshold); err != nil {
		s.storeFailed(w, "set threshold", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *server) handleMachinePriceSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := lines.Parse(chi.URLParam(r, "line"))
	if !ok || !lines.IsMetered(id) {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	over, err := validate.NonNegativeFloat(r.PostForm.Get("over"), "over")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	under, err := validate.NonNegativeFloat(r.PostForm.Get("under"), "under")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetMachinePrice(id, over, under); err != nil {
		s.storeFailed(w, "set machine price", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *server) handleHandpackUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	name, err := validate.Required(r.PostForm.Get("name"), "name")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	price, err := validate.NonNegativeFloat(r.PostForm.Get("price"), "price")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.UpsertHandpack(name, price); err != nil {
		s.storeFailed(w, "upsert hand-pack", err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *server) handleHandpackDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	deleted, err := s.store.DeleteHandpack(name)
	if err != nil {
		s.storeFailed(w, "delete hand-pack", err)
		return
	}
	if !deleted {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLines(w http.ResponseWriter, r *http.Request) {
	names := s.store.HandpackNames()
	options := make([]lineOptions, 0, len(lines.Order()))
	for _, id := range lines.Order() {
		options = append(options, lineOptions{
			Line:     id,
			Metered:  lines.IsMetered(id),
			RunTypes: lines.RunTypes(id, names),
		})
	}
	writeJSON(w, http.StatusOK, options)
}

func (s *server) handleReportPreview(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmissionForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.svc.Preview(sub)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleReportGenerate(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmissionForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	outcome, err := s.svc.Generate(r.Context(), sub)
	if err != nil {
		var verr *validate.Error
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, worker.ErrBusy):
			writeError(w, http.StatusConflict, err)
		default:
			s.logger.Error("generate report", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	select {
	case out := <-outcome:
		if out.Err != nil {
			var renderErr *report.RenderError
			if errors.As(out.Err, &renderErr) {
				s.logger.Warn("report render failed", zap.String("op", renderErr.Op), zap.Error(renderErr.Err))
			}
			writeError(w, http.StatusInternalServerError, out.Err)
			return
		}
		writeJSON(w, http.StatusOK, generateResponse{Path: out.Path})
	case <-r.Context().Done():
		// The render keeps running; a failure is logged by the service.
	}
}

func (s *server) handleReportsList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := s.archive.List(r.Context(), query)
	if err != nil {
		s.logger.Error("list reports", zap.Error(err))
		http.Error(w, "failed to load reports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *server) handleReportDetail(w http.ResponseWriter, r *http.Request) {
	entry, err := s.archive.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, history.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("load report", zap.Error(err))
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// storeFailed maps a settings store error to a response. Sentinel errors are
// input problems; anything else is a failed write.
func (s *server) storeFailed(w http.ResponseWriter, op string, err error) {
	for _, sentinel := range []error{
		settings.ErrInvalidPrice,
		settings.ErrInvalidWage,
		settings.ErrInvalidThreshold,
		settings.ErrUnknownLine,
		settings.ErrEmptyName,
	} {
		if errors.Is(err, sentinel) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	s.logger.Error(op, zap.Error(err))
	writeError(w, http.StatusInternalServerError, err)
}

// parseSubmissionForm reads a report submission from form fields named
// name, shift, notes, wage and <LINE>_type, _qty, _ple, _hrs, _over, _under.
func parseSubmissionForm(r *http.Request) (service.Submission, error) {
	if err := r.ParseForm(); err != nil {
		return service.Submission{}, err
	}
	form := r.PostForm

	sub := service.Submission{
		Name:   form.Get("name"),
		Shift:  form.Get("shift"),
		Notes:  form.Get("notes"),
		Wage:   form.Get("wage"),
		Lines:  make(map[lines.ID]pricing.LineEntry, len(lines.Order())),
		Prices: make(map[lines.ID]service.PriceText, len(lines.Metered())),
	}

	for _, id := range lines.Order() {
		key := string(id)
		people, err := validate.IntInRange(form.Get(key+"_ple"), key+"_ple", 0, lines.MaxPeople)
		if err != nil {
			return service.Submission{}, err
		}
		hours, err := validate.IntInRange(form.Get(key+"_hrs"), key+"_hrs", 0, lines.MaxHours)
		if err != nil {
			return service.Submission{}, err
		}
		sub.Lines[id] = pricing.LineEntry{
			RunType:  form.Get(key + "_type"),
			Quantity: form.Get(key + "_qty"),
			People:   people,
			Hours:    hours,
		}
		if lines.IsMetered(id) {
			sub.Prices[id] = service.PriceText{
				Over:  form.Get(key + "_over"),
				Under: form.Get(key + "_under"),
			}
		}
	}

	return sub, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var verr *validate.Error
	if errors.As(err, &verr) {
		resp.Field = verr.Field
	}
	writeJSON(w, status, resp)
}
