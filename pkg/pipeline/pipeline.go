package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/geldfluss/geldfluss/pkg/anonymizer"
	"github.com/geldfluss/geldfluss/pkg/categorizer"
	"github.com/geldfluss/geldfluss/pkg/models"
	"github.com/geldfluss/geldfluss/pkg/parser"
	"github.com/geldfluss/geldfluss/pkg/recurring"
	"github.com/geldfluss/geldfluss/pkg/transfers"
)

// Session owns one import's worth of state: the anonymization store and the
// learned-mapping table live exactly as long as the session. Create a fresh
// Session per file; sharing one across concurrent imports is not supported.
type Session struct {
	logger     *log.Logger
	parser     *parser.Parser
	anonymizer *anonymizer.Anonymizer
	categorize *categorizer.Categorizer
	transfers  *transfers.Detector
	recurring  *recurring.Detector
	anonymize  bool
}

// Option configures a Session.
type Option func(*Session)

// WithAnonymization toggles the anonymization stage. Disabled, the pipeline
// runs pass-through with an empty mapping list.
func WithAnonymization(enabled bool) Option {
	return func(s *Session) { s.anonymize = enabled }
}

// WithLearnedMappings injects user-confirmed merchant -> category pairs.
func WithLearnedMappings(mappings []categorizer.LearnedMapping) Option {
	return func(s *Session) {
		s.categorize = categorizer.New(s.logger, categorizer.WithLearned(categorizer.NewLearnedTable(mappings)))
	}
}

// WithCategorizer replaces the whole categorizer (custom rules/tables).
func WithCategorizer(c *categorizer.Categorizer) Option {
	return func(s *Session) { s.categorize = c }
}

// WithParser replaces the parser (custom bank profiles).
func WithParser(p *parser.Parser) Option {
	return func(s *Session) { s.parser = p }
}

// WithBusinesses overrides the anonymizer's known-business list.
func WithBusinesses(businesses []string) Option {
	return func(s *Session) { s.anonymizer.SetBusinesses(businesses) }
}

// WithTransferKeywords overrides the transfer detector's keyword list.
func WithTransferKeywords(keywords []string) Option {
	return func(s *Session) { s.transfers.SetKeywords(keywords) }
}

// NewSession builds a session with fresh per-batch stores.
func NewSession(logger *log.Logger, opts ...Option) *Session {
	s := &Session{
		logger:     logger,
		parser:     parser.New(logger),
		anonymizer: anonymizer.New(logger, anonymizer.NewStore()),
		categorize: categorizer.New(logger),
		transfers:  transfers.New(logger),
		recurring:  recurring.New(logger),
		anonymize:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is the output of one processed import.
type Result struct {
	Transactions []models.Transaction          `json:"transactions"`
	Mappings     []models.AnonymizationMapping `json:"mappings,omitempty"`
	Pairs        []transfers.Pair              `json:"pairs,omitempty"`
}

// Process runs the full pipeline over one export file: parse, anonymize,
// categorize, detect internal transfers, detect recurrences. File-level
// failures abort with no partial result.
func (s *Session) Process(data []byte, filename string) (*Result, error) {
	raws, err := s.parser.ProcessBytes(data, filename)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", filename, err)
	}

	var (
		txs      []models.Transaction
		mappings []models.AnonymizationMapping
	)
	if s.anonymize {
		txs, mappings = s.anonymizer.Anonymize(raws)
	} else {
		txs, mappings = s.anonymizer.Passthrough(raws)
	}

	txs = s.categorize.Categorize(txs)
	txs, pairs := s.transfers.Detect(txs)
	txs = s.recurring.Detect(txs)

	return &Result{Transactions: txs, Mappings: mappings, Pairs: pairs}, nil
}

// Anonymizer exposes the session's anonymizer for reverse lookups.
func (s *Session) Anonymizer() *anonymizer.Anonymizer {
	return s.anonymizer
}

// CategoryOverride is a post-hoc category assignment from outside the
// pipeline, typically the AI fallback or a manual user correction.
type CategoryOverride struct {
	ID       string                `json:"id"`
	Category string                `json:"category"`
	Source   models.CategorySource `json:"source"`
}

// ApplyOverrides patches categories onto already-processed transactions
// without re-running any stage. Unknown ids are ignored.
func (r *Result) ApplyOverrides(overrides []CategoryOverride) {
	if len(overrides) == 0 {
		return
	}
	byID := make(map[string]int, len(r.Transactions))
	for i := range r.Transactions {
		byID[r.Transactions[i].ID] = i
	}
	for _, o := range overrides {
		i, ok := byID[o.ID]
		if !ok || o.Category == "" {
			continue
		}
		r.Transactions[i].Category = o.Category
		source := o.Source
		if source == "" {
			source = models.SourceManual
		}
		r.Transactions[i].CategorySource = source
	}
}
