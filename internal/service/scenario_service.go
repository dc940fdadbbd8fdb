package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jsreddy/splitscenario/internal/extract"
	"github.com/jsreddy/splitscenario/internal/ledger"
	"github.com/jsreddy/splitscenario/internal/metrics"
	"github.com/jsreddy/splitscenario/internal/middleware"
	"github.com/jsreddy/splitscenario/internal/models"
	"github.com/jsreddy/splitscenario/internal/storage"
)

// aiFailureMessage is the genericized user-facing reason for any
// extraction-related failure; oracle internals are never surfaced.
const aiFailureMessage = "AI parsing failed, use clearer input with full names."

// Extractor turns one natural-language description into structured expense
// data. Satisfied by *extract.Client; tests substitute fakes.
type Extractor interface {
	Extract(ctx context.Context, input, currency string, knownParticipants []string) (*extract.ParsedResult, error)
}

// ScenarioService implements the scenario HTTP endpoints and orchestrates the
// extraction -> normalize -> balances -> settlements -> persist pipeline.
type ScenarioService struct {
	store     storage.Store
	extractor Extractor
}

// NewScenarioService creates a scenario service with the given collaborators.
func NewScenarioService(store storage.Store, extractor Extractor) *ScenarioService {
	return &ScenarioService{store: store, extractor: extractor}
}

// scenarioEntry is one raw entry in a batch create request.
type scenarioEntry struct {
	Input string `json:"input"`
	Date  string `json:"date"`
	// Excluded holds the caller's explicit exclusion choices; used only
	// when the extraction itself reports no exclusions.
	Excluded []string `json:"excluded"`
}

// createRequest is the batch create request body.
type createRequest struct {
	Scenarios []scenarioEntry `json:"scenarios"`
	// Participants are optional hints forwarded to the extraction oracle.
	Participants []string `json:"participants"`
	Category     string   `json:"category"`
	Currency     string   `json:"currency"`
}

// failedScenario reports why one batch entry was rejected. Index is 1-based.
type failedScenario struct {
	Index  int    `json:"index"`
	Input  string `json:"input,omitempty"`
	Reason string `json:"reason"`
}

// createResponse carries the created scenarios plus any per-entry failures.
type createResponse struct {
	Scenarios []*models.Scenario `json:"scenarios"`
	Failures  []failedScenario   `json:"failures,omitempty"`
}

// Create handles POST /api/scenario/create: a batch of scenario descriptions
// processed independently. The request fails only if every entry failed.
func (s *ScenarioService) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Scenarios) == 0 {
		writeError(w, http.StatusBadRequest, "Scenarios array required")
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "Category required")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	created, failed := s.createScenarios(r.Context(), userID, req)

	if len(created) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:    "No valid scenarios created",
			Failures: failed,
		})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{Scenarios: created, Failures: failed})
}

// createScenarios drives the batch. Entries are processed sequentially: each
// one issues an oracle call, and sequential processing keeps failure
// accounting simple and avoids bursting the oracle's rate limits. A failure
// in one entry never aborts its siblings.
func (s *ScenarioService) createScenarios(ctx context.Context, userID string, req createRequest) ([]*models.Scenario, []failedScenario) {
	var created []*models.Scenario
	var failed []failedScenario

	for i, entry := range req.Scenarios {
		index := i + 1

		if strings.TrimSpace(entry.Input) == "" || strings.TrimSpace(entry.Date) == "" {
			failed = append(failed, failedScenario{Index: index, Reason: "Missing input or date"})
			metrics.ScenariosFailed.WithLabelValues("validation").Inc()
			continue
		}

		scenario, err := s.processEntry(ctx, userID, entry, req)
		if err != nil {
			slog.Warn("Scenario entry failed", "index", index, "error", err)
			failed = append(failed, failedScenario{
				Index:  index,
				Input:  truncate(entry.Input, 50),
				Reason: userFacingReason(err),
			})
			metrics.ScenariosFailed.WithLabelValues(reasonClass(err)).Inc()
			continue
		}

		slog.Info("Scenario created", "index", index, "scenario_id", scenario.ID, "participants", scenario.Participants)
		metrics.ScenariosCreated.Inc()
		created = append(created, scenario)
	}

	return created, failed
}

// processEntry runs one entry through the full pipeline.
func (s *ScenarioService) processEntry(ctx context.Context, userID string, entry scenarioEntry, req createRequest) (*models.Scenario, error) {
	parsed, err := s.extractor.Extract(ctx, entry.Input, req.Currency, req.Participants)
	if err != nil {
		return nil, err
	}

	norm := ledger.Normalize(parsed, entry.Excluded)
	if norm.Sharers() == 0 {
		return nil, ledger.ErrNoSharers
	}

	date, err := parseDate(entry.Date)
	if err != nil {
		return nil, err
	}

	balances := ledger.ComputeBalances(norm.Participants, parsed.Expenses, norm.Excluded)
	settlements := ledger.ReduceToSettlements(balances)

	scenario := &models.Scenario{
		UserID:       userID,
		Category:     req.Category,
		Currency:     req.Currency,
		Input:        entry.Input,
		Participants: norm.Participants,
		Expenses:     parsed.Expenses,
		Balances:     balances,
		Settlements:  settlements,
		Date:         date.Unix(),
		Excluded:     norm.Excluded,
	}

	if err := s.store.CreateScenario(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to persist scenario: %w", err)
	}
	return scenario, nil
}

// List handles GET /api/scenario/: the caller's scenarios, newest date first.
func (s *ScenarioService) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	scenarios, err := s.store.ListScenariosByUser(r.Context(), userID)
	if err != nil {
		slog.Error("List scenarios failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list scenarios")
		return
	}
	if scenarios == nil {
		scenarios = []*models.Scenario{}
	}

	writeJSON(w, http.StatusOK, scenarios)
}

// Delete handles DELETE /api/scenario/{id}. Deletion is ownership-scoped: a
// user can only remove their own scenarios.
func (s *ScenarioService) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if err := s.store.DeleteScenario(r.Context(), id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		slog.Error("Delete scenario failed", "scenario_id", id, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete scenario")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// userFacingReason converts a pipeline error into a message safe to show the
// caller. Extraction failures are deliberately genericized.
func userFacingReason(err error) string {
	var exErr *extract.Error
	if errors.As(err, &exErr) {
		return aiFailureMessage
	}
	return err.Error()
}

// reasonClass buckets a pipeline error for the failure counter.
func reasonClass(err error) string {
	var exErr *extract.Error
	switch {
	case errors.As(err, &exErr):
		return "extraction"
	case errors.Is(err, ledger.ErrNoSharers):
		return "no_sharers"
	case errors.Is(err, errBadDate):
		return "date"
	default:
		return "persistence"
	}
}

var errBadDate = errors.New("invalid date, use YYYY-MM-DD")

// parseDate accepts ISO YYYY-MM-DD, falling back to a manual
// split-and-reassemble of the same components for slightly malformed input
// like "2026-8-5".
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, errBadDate
	}
	year, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	day, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, errBadDate
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// truncate shortens s for failure reports.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
