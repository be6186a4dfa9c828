//go:build integration

package integration

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jwebster45206/realm-engine/integration/runner"
)

var caseFlag = flag.String("case", "", "Name of test case to run (from integration/cases/)")
var errFlag = flag.String("err", "continue", "Error handling mode: 'continue' (run all steps) or 'exit' (stop on first failure)")
var runsFlag = flag.Int("runs", 1, "Number of times to run each test suite (useful for testing non-deterministic behavior)")
var worldFlag = flag.String("world", "", "Override world preset for all test cases (e.g., 'thanh-van.yaml')")

func TestMain(m *testing.M) {
	fmt.Printf("Running Realm Engine Integration Tests\n")
	fmt.Printf("   API Base URL: %s\n", apiBaseURL())
	os.Exit(m.Run())
}

func apiBaseURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func newRunner(mode runner.ErrorHandlingMode) *runner.Runner {
	r := runner.NewRunner(apiBaseURL())
	r.Client.Timeout = time.Duration(getIntEnv("TEST_TIMEOUT_SECONDS", 180)) * time.Second
	r.ErrorHandlingMode = mode
	r.WorldOverride = *worldFlag
	r.Logger = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}
	return r
}

func TestIntegrationSuites(t *testing.T) {
	if *caseFlag != "" {
		t.Skip("Skipping bulk run (-case selects TestSingleSuite)")
	}
	testRunner := newRunner(runner.ErrorHandlingContinue)

	testFiles, err := discoverTestFiles("cases")
	if err != nil {
		t.Fatalf("Failed to discover test files: %v", err)
	}
	if len(testFiles) == 0 {
		t.Fatal("No test files found in cases directory")
	}

	var jobs []runner.TestJob
	for _, file := range testFiles {
		expanded, err := runner.LoadTestSuiteWithExpansion(file, "cases")
		if err != nil {
			t.Errorf("Failed to load test suite %s: %v", file, err)
			continue
		}
		jobs = append(jobs, expanded...)
	}
	if len(jobs) == 0 {
		t.Fatal("No valid test suites loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
	defer cancel()

	var failed []string
	for i, job := range jobs {
		t.Logf("[%d/%d] Starting test suite: %s (%d steps)", i+1, len(jobs), job.Name, len(job.Suite.Steps))
		result := runJob(ctx, testRunner, job)
		t.Logf("Session ID: %s", result.Session)
		logSteps(t, result, 1, nil)
		if result.Error != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", job.Name, result.Error))
			t.Errorf("[%d/%d] FAILED: %s: %v", i+1, len(jobs), job.Name, result.Error)
			continue
		}
		t.Logf("[%d/%d] PASSED: %s in %v", i+1, len(jobs), job.Name, result.Duration)
	}

	t.Logf("Integration Test Summary: %d passed, %d failed", len(jobs)-len(failed), len(failed))
	if len(failed) > 0 {
		for _, f := range failed {
			t.Logf("   - %s", f)
		}
		t.Fatalf("Integration tests failed")
	}
}

// TestSingleSuite runs selected cases, comma-separated: -case "basic,rollback"
func TestSingleSuite(t *testing.T) {
	if *caseFlag == "" {
		t.Skip("Skipping single suite test (use -case flag to run)")
	}
	if *errFlag != "exit" && *errFlag != "continue" {
		t.Fatalf("Invalid -err flag value: %s (must be 'exit' or 'continue')", *errFlag)
	}
	runs := *runsFlag
	if runs < 1 {
		t.Fatalf("Number of runs must be >= 1, got: %d", runs)
	}

	var suiteFiles []string
	for _, name := range strings.Split(*caseFlag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, ".yaml") {
			name += ".yaml"
		}
		suiteFiles = append(suiteFiles, filepath.Join("cases", name))
	}
	if len(suiteFiles) == 0 {
		t.Fatalf("No valid test cases found in -case flag: %s", *caseFlag)
	}

	// Multi-run always continues so the statistics are complete.
	mode := runner.ErrorHandlingMode(*errFlag)
	if runs > 1 {
		mode = runner.ErrorHandlingContinue
	}
	testRunner := newRunner(mode)

	stats := make(map[string]*caseStat)
	var failures []failureDetail
	total, passes := 0, 0

	for run := 1; run <= runs; run++ {
		if runs > 1 {
			t.Logf("=== RUN %d/%d ===", run, runs)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Minute)
		for _, file := range suiteFiles {
			jobs, err := runner.LoadTestSuiteWithExpansion(file, "cases")
			if err != nil {
				cancel()
				t.Fatalf("Failed to load test suite %s: %v", file, err)
			}
			for _, job := range jobs {
				result := runJob(ctx, testRunner, job)
				t.Logf("Session ID: %s", result.Session)
				failures = logSteps(t, result, run, failures)

				total++
				st := stats[job.Name]
				if st == nil {
					st = &caseStat{}
					stats[job.Name] = st
				}
				if result.Error != nil {
					st.failures++
					t.Errorf("FAILED: %s: %v", job.Name, result.Error)
					if runs == 1 && mode == runner.ErrorHandlingExit {
						cancel()
						t.FailNow()
					}
					continue
				}
				st.passes++
				passes++
				t.Logf("PASSED: %s in %v", job.Name, result.Duration)
			}
		}
		cancel()
	}

	if runs > 1 || len(suiteFiles) > 1 {
		t.Log(buildFinalReport(runs, total, passes, stats))
	}
	if len(failures) > 0 {
		t.Log(buildFailureReport(failures))
	}
	if passes < total {
		t.Fatalf("Test suite(s) had errors")
	}
}

func runJob(ctx context.Context, r *runner.Runner, job runner.TestJob) runner.TestRunResult {
	result, err := r.RunSuite(ctx, job.Suite)
	if err != nil && result.Error == nil {
		result.Error = err
	}
	result.Job = job
	return result
}

func logSteps(t *testing.T, result runner.TestRunResult, run int, failures []failureDetail) []failureDetail {
	t.Helper()
	for _, step := range result.Results {
		switch {
		case step.IsRollback && step.Success:
			t.Logf("   ↺ %s (%v)", step.StepName, step.Duration)
		case step.Success:
			t.Logf("   ✓ %s (%v)", step.StepName, step.Duration)
		default:
			t.Logf("   ✗ %s: %v", step.StepName, step.Error)
			failures = append(failures, failureDetail{
				caseName: result.Job.Name,
				stepName: step.StepName,
				error:    fmt.Sprint(step.Error),
				run:      run,
			})
		}
	}
	return failures
}

type caseStat struct {
	passes, failures int
}

// failureDetail tracks information about a specific step failure
type failureDetail struct {
	caseName string
	stepName string
	error    string
	run      int
}

func buildFinalReport(runs, total, passes int, stats map[string]*caseStat) string {
	var sb strings.Builder
	if total == 0 {
		return ""
	}
	fmt.Fprintf(&sb, "\n=== FINAL STATISTICS (%d run(s)) ===\n", runs)
	fmt.Fprintf(&sb, "Total passes: %d/%d (%.1f%%)\n", passes, total, float64(passes)/float64(total)*100)

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := stats[name]
		fmt.Fprintf(&sb, "  %s: %d/%d passes\n", name, st.passes, st.passes+st.failures)
		if st.passes > 0 && st.failures > 0 {
			sb.WriteString("    ⚠️  FLAKY: this case both passed and failed across runs\n")
		}
	}
	return sb.String()
}

func buildFailureReport(failures []failureDetail) string {
	var sb strings.Builder
	sb.WriteString("\n========================================\n")
	sb.WriteString("Detailed Failure Report\n")
	sb.WriteString("========================================\n")

	byCase := make(map[string][]failureDetail)
	for _, f := range failures {
		byCase[f.caseName] = append(byCase[f.caseName], f)
	}
	names := make([]string, 0, len(byCase))
	for name := range byCase {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&sb, "\n%s (%d step failure(s)):\n", name, len(byCase[name]))
		for _, f := range byCase[name] {
			fmt.Fprintf(&sb, "  ✗ %s (run %d): %s\n", f.stepName, f.run, f.error)
		}
	}
	return sb.String()
}

func discoverTestFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(path, ".yaml") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func getIntEnv(name string, defaultValue int) int {
	val, err := strconv.Atoi(os.Getenv(name))
	if err != nil {
		return defaultValue
	}
	return val
}
