package runner

import (
	"time"

	"github.com/google/uuid"
)

// Special prompt values that trigger non-turn actions
const (
	RollbackPrompt = "ROLLBACK"
)

// TestSuite defines a complete integration test scenario.
// It either has Steps or references other Cases.
type TestSuite struct {
	Name  string     `yaml:"name"`
	World string     `yaml:"world,omitempty"` // preset filename under DATA_DIR/worlds
	Steps []TestStep `yaml:"steps,omitempty"`
	Cases []string   `yaml:"cases,omitempty"`
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one player action and what must hold afterwards.
// Use prompt: ROLLBACK to undo the previous turn instead.
type TestStep struct {
	Name         string       `yaml:"name,omitempty"`
	Prompt       string       `yaml:"prompt"`
	Expectations Expectations `yaml:"expect"`
}

// Expectations defines what to check after a step executes
type Expectations struct {
	Turn          *int     `yaml:"turn,omitempty"`
	Realm         *string  `yaml:"realm,omitempty"`
	Currency      *int     `yaml:"linhThach,omitempty"`
	Location      *string  `yaml:"location,omitempty"`
	Inventory     []string `yaml:"inventory,omitempty"` // names that must be present
	NPCs          []string `yaml:"npcs,omitempty"`      // names that must be known
	Quests        []string `yaml:"quests,omitempty"`    // titles that must exist
	PageCount     *int     `yaml:"pageCount,omitempty"`
	NoDiagnostics bool     `yaml:"noDiagnostics,omitempty"`

	// Response Analysis
	ResponseContains    []string `yaml:"responseContains,omitempty"`
	ResponseNotContains []string `yaml:"responseNotContains,omitempty"`
	ResponseRegex       string   `yaml:"responseRegex,omitempty"`
	ResponseMinLength   *int     `yaml:"responseMinLength,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	StepName     string
	Success      bool
	Error        error
	Duration     time.Duration
	ResponseText string
	IsRollback   bool
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	Session  uuid.UUID
}
