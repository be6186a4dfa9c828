package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/internal/session"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"gopkg.in/yaml.v3"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner executes integration tests against a running realm-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	WorldOverride     string // If set, overrides the world for all test cases
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 3 * time.Minute},
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}
	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{Name: suite.Name, Suite: suite, CaseFile: filename}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		subJobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, caseFile), casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}
		jobs = append(jobs, subJobs...)
	}
	return jobs, nil
}

// RunSuite executes a complete test suite on a fresh session.
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	world := suite.World
	if r.WorldOverride != "" {
		world = r.WorldOverride
	}
	view, err := r.createSession(ctx, world)
	if err != nil {
		result.Error = fmt.Errorf("failed to create session: %w", err)
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = view.ID

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.runStep(ctx, view.ID, step)
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(ctx context.Context, id uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: step.Name}

	var outcome *session.TurnOutcome
	if step.Prompt == RollbackPrompt {
		result.IsRollback = true
		if err := r.call(ctx, http.MethodPost, "/v1/sessions/"+id.String()+"/rollback", nil, http.StatusOK, nil); err != nil {
			result.Error = fmt.Errorf("failed to roll back: %w", err)
			result.Duration = time.Since(start)
			return result
		}
	} else {
		var out session.TurnOutcome
		err := r.call(ctx, http.MethodPost, "/v1/sessions/"+id.String()+"/turns", handlers.TurnRequest{Message: step.Prompt}, http.StatusOK, &out)
		if err != nil {
			result.Error = fmt.Errorf("failed to play turn: %w", err)
			result.Duration = time.Since(start)
			return result
		}
		outcome = &out
		result.ResponseText = out.Narration
	}

	var view handlers.SessionView
	if err := r.call(ctx, http.MethodGet, "/v1/sessions/"+id.String(), nil, http.StatusOK, &view); err != nil {
		result.Error = fmt.Errorf("failed to read session: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	if err := checkExpectations(step.Expectations, &view, outcome); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func (r *Runner) createSession(ctx context.Context, world string) (*handlers.SessionView, error) {
	var view handlers.SessionView
	if err := r.call(ctx, http.MethodPost, "/v1/sessions", handlers.CreateSessionRequest{World: world}, http.StatusCreated, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *Runner) call(ctx context.Context, method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func hasName[T any](list []T, name func(T) string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(name(v), want) {
			return true
		}
	}
	return false
}

// checkExpectations validates one step's expectations against the session
// as read after the step. outcome is nil for rollback steps.
func checkExpectations(exp Expectations, view *handlers.SessionView, outcome *session.TurnOutcome) error {
	kb := view.KnowledgeBase
	if kb == nil {
		return fmt.Errorf("session has no knowledge base")
	}

	if exp.Turn != nil && kb.PlayerStats.Turn != *exp.Turn {
		return fmt.Errorf("expected turn %d, got %d", *exp.Turn, kb.PlayerStats.Turn)
	}
	if exp.Realm != nil && kb.PlayerStats.Realm != *exp.Realm {
		return fmt.Errorf("expected realm %q, got %q", *exp.Realm, kb.PlayerStats.Realm)
	}
	if exp.Currency != nil && kb.PlayerStats.Currency != *exp.Currency {
		return fmt.Errorf("expected linhThach %d, got %d", *exp.Currency, kb.PlayerStats.Currency)
	}
	if exp.Location != nil {
		loc := kb.CurrentLocation()
		if loc == nil || !strings.EqualFold(loc.Name, *exp.Location) {
			return fmt.Errorf("expected location %q, got %+v", *exp.Location, loc)
		}
	}
	if exp.PageCount != nil && view.PageCount != *exp.PageCount {
		return fmt.Errorf("expected %d page(s), got %d", *exp.PageCount, view.PageCount)
	}

	for _, want := range exp.Inventory {
		if !hasName(kb.Inventory, func(i state.Item) string { return i.Name }, want) {
			return fmt.Errorf("expected inventory to contain '%s'", want)
		}
	}
	for _, want := range exp.NPCs {
		if !hasName(kb.NPCs, func(n state.NPC) string { return n.Name }, want) {
			return fmt.Errorf("expected NPC '%s' to be known", want)
		}
	}
	for _, want := range exp.Quests {
		if !hasName(kb.Quests, func(q state.Quest) string { return q.Title }, want) {
			return fmt.Errorf("expected quest '%s' to exist", want)
		}
	}

	if outcome == nil {
		return nil
	}

	if exp.NoDiagnostics {
		for _, n := range outcome.Notifications {
			if n.Diagnostic() {
				return fmt.Errorf("unexpected diagnostic: %s", n.Text)
			}
		}
	}

	responseText := outcome.Narration
	lowerResponse := strings.ToLower(responseText)
	for _, expectedText := range exp.ResponseContains {
		if !strings.Contains(lowerResponse, strings.ToLower(expectedText)) {
			return fmt.Errorf("expected response to contain '%s', but it didn't", expectedText)
		}
	}
	for _, unexpectedText := range exp.ResponseNotContains {
		if strings.Contains(lowerResponse, strings.ToLower(unexpectedText)) {
			return fmt.Errorf("expected response to NOT contain '%s', but it did", unexpectedText)
		}
	}
	if exp.ResponseRegex != "" {
		matched, err := regexp.MatchString(exp.ResponseRegex, responseText)
		if err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		if !matched {
			return fmt.Errorf("response didn't match regex pattern: %s", exp.ResponseRegex)
		}
	}
	if exp.ResponseMinLength != nil && len([]rune(responseText)) < *exp.ResponseMinLength {
		return fmt.Errorf("expected response length >= %d, got %d", *exp.ResponseMinLength, len([]rune(responseText)))
	}
	return nil
}
