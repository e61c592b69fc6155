package metadata

import (
	"context"
	"log/slog"
	"time"
)

// Patch is the partial field set contributed by one resolution layer.
// Empty strings and nil topic slices mean "not contributed"; later
// patches overwrite earlier ones field by field, never whole-record.
type Patch struct {
	Source  string
	Type    string
	Date    string
	Topics  []string
	Summary string
}

// Overrides carries explicit caller-supplied values (CLI flags or direct
// call parameters). Non-empty fields win over every other layer.
type Overrides struct {
	Source  string
	Type    string
	Date    string
	Topics  []string
	Summary string
}

// Resolver builds the canonical metadata record for an input file.
type Resolver struct {
	classifier *Classifier
	now        func() time.Time
}

// NewResolver creates a Resolver. classifier may be nil, in which case
// the classifier layer is never attempted.
func NewResolver(classifier *Classifier) *Resolver {
	return &Resolver{classifier: classifier, now: time.Now}
}

// Resolve merges the metadata layers for one input file, lowest priority
// first: filename inference, the generative classifier, the sidecar
// file, and finally explicit overrides. The classifier layer is only
// attempted when the sidecar produced no metadata at all, classification
// was requested, and content is available; any classifier failure is
// logged and skipped.
func (r *Resolver) Resolve(ctx context.Context, inputPath string, ov Overrides, content string, useClassifier bool) ContentMetadata {
	source, ctype := InferFromFilename(inputPath)
	m := ContentMetadata{
		Source: source,
		Type:   ctype,
		Date:   r.now().Format("2006-01-02"),
		Topics: []string{},
	}

	sidecar, hasSidecar := LoadSidecar(inputPath)

	patches := make([]Patch, 0, 3)
	if !hasSidecar && useClassifier && content != "" && r.classifier != nil {
		p, err := r.classifier.Classify(ctx, content)
		if err != nil {
			slog.Warn("classifier unavailable, using filename inference",
				slog.String("file", inputPath), slog.String("error", err.Error()))
		} else {
			patches = append(patches, p)
		}
	}
	if hasSidecar {
		patches = append(patches, sidecarPatch(sidecar))
	}
	patches = append(patches, Patch(ov))

	for _, p := range patches {
		apply(&m, p)
	}

	// Always derived fresh from the input path, never layered.
	m.OriginalFile = baseName(inputPath)
	return m
}

// apply overwrites the fields a patch contributes, enforcing the
// normalization contract on enumerated and capped fields.
func apply(m *ContentMetadata, p Patch) {
	if p.Source != "" {
		m.Source = normalizeSource(p.Source)
	}
	if p.Type != "" {
		m.Type = normalizeType(p.Type)
	}
	if p.Date != "" {
		m.Date = p.Date
	}
	if p.Topics != nil {
		m.Topics = cleanTopics(p.Topics)
	}
	if p.Summary != "" {
		m.Summary = truncateSummary(p.Summary)
	}
}
