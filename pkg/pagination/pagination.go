// Package pagination cuts the transcript into pages of turns and decides
// when a finished page is handed off for summarization.
package pagination

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

const DefaultPageSize = 10

// Summaries stored instead of a model summary.
const (
	PlaceholderEmpty  = "(Không có diễn biến nào để tóm tắt.)"
	PlaceholderFailed = "(Không thể tóm tắt trang này.)"
)

// SummaryRequest is what the summarizer sees of a closed page.
type SummaryRequest struct {
	Page            int               `json:"page"`
	FromTurn        int               `json:"fromTurn"`
	ToTurn          int               `json:"toTurn"`
	Messages        []chat.Message    `json:"messages"`
	World           state.WorldConfig `json:"world"`
	Realm           string            `json:"realm,omitempty"`
	Location        string            `json:"location,omitempty"`
	PreviousSummary string            `json:"previousSummary,omitempty"`
}

// Summarizer turns a closed page into summary prose.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}

// Transition describes a page that was closed by Evaluate.
type Transition struct {
	Page        int
	FromTurn    int
	ToTurn      int
	Summary     string
	Placeholder bool
}

// Controller evaluates page boundaries after each turn.
type Controller struct {
	PageSize   int
	Summarizer Summarizer
	Logger     *slog.Logger
}

// NewController creates a controller. pageSize <= 0 means DefaultPageSize;
// summarizer and logger may be nil.
func NewController(pageSize int, summarizer Summarizer, logger *slog.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{PageSize: pageSize, Summarizer: summarizer, Logger: logger}
}

func (c *Controller) pageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// Evaluate closes the open page when newTurn completes it. The page closes
// once the number of completed turns (newTurn-1) is a positive multiple of
// the page size that has not been summarized yet. The summary is stored in
// kb, a new page starts at the following turn, and the transition is
// returned; nil means the page stays open.
//
// A failing summarizer does not stop the page from closing; a placeholder
// is stored and the failure is logged.
func (c *Controller) Evaluate(ctx context.Context, kb *state.KnowledgeBase, messages []chat.Message, newTurn int) (*Transition, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge base cannot be nil")
	}
	completed := newTurn - 1
	if completed <= 0 || completed%c.pageSize() != 0 || completed <= kb.LastSummarizedTurn {
		return nil, nil
	}

	starts := pageStarts(kb)
	page := len(starts)
	tr := &Transition{Page: page, FromTurn: starts[page-1], ToTurn: completed}

	inRange := filterTurns(messages, tr.FromTurn, tr.ToTurn)
	switch {
	case len(inRange) == 0:
		tr.Summary, tr.Placeholder = PlaceholderEmpty, true
	case c.Summarizer == nil:
		tr.Summary, tr.Placeholder = PlaceholderFailed, true
	default:
		req := SummaryRequest{
			Page:            page,
			FromTurn:        tr.FromTurn,
			ToTurn:          tr.ToTurn,
			Messages:        inRange,
			World:           kb.WorldConfig,
			Realm:           kb.PlayerStats.Realm,
			PreviousSummary: kb.PageSummaries[page-1],
		}
		if loc := kb.CurrentLocation(); loc != nil {
			req.Location = loc.Name
		}
		summary, err := c.Summarizer.Summarize(ctx, req)
		if err != nil || summary == "" {
			if c.Logger != nil {
				c.Logger.Error("Failed to summarize page", "page", page, "from_turn", tr.FromTurn, "to_turn", tr.ToTurn, "error", err)
			}
			tr.Summary, tr.Placeholder = PlaceholderFailed, true
		} else {
			tr.Summary = summary
		}
	}

	if kb.PageSummaries == nil {
		kb.PageSummaries = map[int]string{}
	}
	kb.PageSummaries[page] = tr.Summary
	kb.LastSummarizedTurn = completed
	kb.PageStartTurns = append(starts, completed+1)

	if c.Logger != nil {
		c.Logger.Info("Closed page", "page", page, "from_turn", tr.FromTurn, "to_turn", tr.ToTurn, "placeholder", tr.Placeholder)
	}
	return tr, nil
}

// pageStarts returns kb's page boundaries, treating a missing list as a
// single page starting at turn 1.
func pageStarts(kb *state.KnowledgeBase) []int {
	if len(kb.PageStartTurns) == 0 {
		return []int{1}
	}
	return kb.PageStartTurns
}

func filterTurns(messages []chat.Message, from, to int) []chat.Message {
	var out []chat.Message
	for _, m := range messages {
		if m.Turn >= from && (to < 0 || m.Turn <= to) && m.Role != chat.RoleSummary {
			out = append(out, m)
		}
	}
	return out
}

// PageCount returns the number of pages, including the open one.
func PageCount(kb *state.KnowledgeBase) int {
	return len(pageStarts(kb))
}

// PageForTurn returns the 1-based page a turn belongs to.
func PageForTurn(kb *state.KnowledgeBase, turn int) int {
	starts := pageStarts(kb)
	i := sort.Search(len(starts), func(i int) bool { return starts[i] > turn })
	return max(i, 1)
}

// PageSpan returns the first and last turn of a page; the last page is open
// ended and reports to = -1.
func PageSpan(kb *state.KnowledgeBase, page int) (from, to int, ok bool) {
	starts := pageStarts(kb)
	if page < 1 || page > len(starts) {
		return 0, 0, false
	}
	from, to = starts[page-1], -1
	if page < len(starts) {
		to = starts[page] - 1
	}
	return from, to, true
}

// MessagesForPage returns the messages whose turn falls in the page, in
// transcript order. Out-of-range pages yield nil.
func MessagesForPage(kb *state.KnowledgeBase, messages []chat.Message, page int) []chat.Message {
	from, to, ok := PageSpan(kb, page)
	if !ok {
		return nil
	}
	return filterTurns(messages, from, to)
}

// Summary returns the stored summary of a closed page.
func Summary(kb *state.KnowledgeBase, page int) (string, bool) {
	s, ok := kb.PageSummaries[page]
	return s, ok
}
