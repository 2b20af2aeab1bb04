// Package standardize folds the discrete risk statements of a company's
// Primary Risks bullet into a single narrative body.
package standardize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/primary-risks/internal/company"
	"github.com/kingrea/primary-risks/internal/jsondoc"
)

// Change describes one rewritten bullet.
type Change struct {
	Record  int
	Company string
	Bullet  int
	Risks   []string
	Body    string
}

// Result accumulates the changes made by one pass over a dataset.
type Result struct {
	Changes []Change
}

// Changed is the number of bullets rewritten.
func (r Result) Changed() int {
	return len(r.Changes)
}

// Companies lists the distinct company labels that changed, in dataset order.
func (r Result) Companies() []string {
	seen := make(map[int]bool, len(r.Changes))
	var out []string
	for _, c := range r.Changes {
		if seen[c.Record] {
			continue
		}
		seen[c.Record] = true
		out = append(out, c.Company)
	}
	return out
}

// Standardizer rewrites bullets in place.
type Standardizer struct {
	bullet int
	logger *zap.Logger
}

// Option customizes a Standardizer during construction.
type Option func(*Standardizer)

// WithBullet overrides the bullet number treated as Primary Risks.
func WithBullet(n int) Option {
	return func(s *Standardizer) {
		if n > 0 {
			s.bullet = n
		}
	}
}

// WithLogger sets the logger used for skip diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Standardizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a Standardizer targeting company.PrimaryRisksN.
func New(opts ...Option) *Standardizer {
	s := &Standardizer{
		bullet: company.PrimaryRisksN,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply walks every record and rewrites each qualifying bullet. Records,
// outlooks and bullets with unexpected shapes are skipped, never rejected.
func (s *Standardizer) Apply(records []jsondoc.Value) Result {
	var result Result
	for i, v := range records {
		rec, ok := company.FromValue(i, v)
		if !ok {
			s.logger.Debug("skip record: not an object", zap.Int("record", i))
			continue
		}
		outlook, ok := rec.Outlook()
		if !ok {
			continue
		}
		bullets, ok := outlook.Bullets()
		if !ok {
			s.logger.Debug("skip record: outlook bullets is not a list", zap.String("company", rec.Label()))
			continue
		}
		for _, b := range bullets {
			if !b.Is(s.bullet) {
				continue
			}
			if !s.qualifies(rec, b) {
				continue
			}
			risks := b.Risks
			body := JoinRisks(risks)
			b.ReplaceRisks(body)
			result.Changes = append(result.Changes, Change{
				Record:  i,
				Company: rec.Label(),
				Bullet:  b.Index,
				Risks:   risks,
				Body:    body,
			})
		}
	}
	return result
}

func (s *Standardizer) qualifies(rec company.Record, b *company.Bullet) bool {
	switch {
	case !b.RisksPresent:
		return false
	case !b.RisksValid:
		s.logger.Debug("skip bullet: risks is not a list of strings",
			zap.String("company", rec.Label()), zap.Int("bullet", b.Index))
		return false
	case len(b.Risks) == 0:
		return false
	case b.HasBody():
		return false
	}
	return true
}

// Apply runs a default Standardizer over records.
func Apply(records []jsondoc.Value) Result {
	return New().Apply(records)
}

// JoinRisks turns risk statements into one paragraph: each statement is
// trimmed, its trailing periods are replaced by exactly one, and the
// sentences are joined with single spaces in their original order.
func JoinRisks(risks []string) string {
	sentences := make([]string, 0, len(risks))
	for _, risk := range risks {
		sentence := strings.TrimRight(strings.TrimSpace(risk), ".")
		sentences = append(sentences, sentence+".")
	}
	return strings.Join(sentences, " ")
}
