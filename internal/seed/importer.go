package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/at-ishikawa/verbdrill/internal/config"
	"github.com/at-ishikawa/verbdrill/internal/verb"
)

// Result reports what an import did.
type Result struct {
	Total    int
	Created  int
	Existing int
	Skipped  int
	// Errors holds one message per invalid row.
	Errors []string
}

// Importer adds seed rows to the catalog.
type Importer struct {
	catalog  verb.Repository
	validate *validator.Validate
	trans    ut.Translator
	logger   *slog.Logger
}

// NewImporter creates a new Importer.
func NewImporter(catalog verb.Repository, logger *slog.Logger) (*Importer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	validate, trans, err := config.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("config.NewValidator() > %w", err)
	}
	return &Importer{
		catalog:  catalog,
		validate: validate,
		trans:    trans,
		logger:   logger,
	}, nil
}

// Import trims every row, skips rows without an infinitive and rows that fail
// validation, and creates the verbs whose infinitive is not in the catalog yet.
func (i *Importer) Import(ctx context.Context, rows []Row) (Result, error) {
	result := Result{Total: len(rows)}

	candidates := make([]verb.Verb, 0, len(rows))
	inFile := make(map[string]struct{}, len(rows))
	for n, row := range rows {
		v := row.toVerb()
		if v.Infinitive == "" {
			result.Skipped++
			continue
		}
		if _, ok := inFile[v.Infinitive]; ok {
			result.Skipped++
			continue
		}
		if err := i.validate.Struct(v); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors,
				fmt.Sprintf("row %d (%s): %v", n+1, v.Infinitive, config.TranslateError(err, i.trans)))
			continue
		}
		inFile[v.Infinitive] = struct{}{}
		candidates = append(candidates, v)
	}
	if len(candidates) == 0 {
		return result, nil
	}

	infinitives := make([]string, 0, len(candidates))
	for _, v := range candidates {
		infinitives = append(infinitives, v.Infinitive)
	}
	existing, err := i.catalog.FindExistingInfinitives(ctx, infinitives)
	if err != nil {
		return result, fmt.Errorf("catalog.FindExistingInfinitives() > %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, infinitive := range existing {
		known[infinitive] = struct{}{}
	}

	verbs := make([]verb.Verb, 0, len(candidates))
	for _, v := range candidates {
		if _, ok := known[v.Infinitive]; ok {
			result.Existing++
			continue
		}
		verbs = append(verbs, v)
	}
	if len(verbs) == 0 {
		i.logger.Info("all verbs already exist", "total", result.Total)
		return result, nil
	}
	if err := i.catalog.BatchCreate(ctx, verbs); err != nil {
		return result, fmt.Errorf("catalog.BatchCreate() > %w", err)
	}
	result.Created = len(verbs)
	i.logger.Info("verbs imported",
		"total", result.Total,
		"created", result.Created,
		"existing", result.Existing,
		"skipped", result.Skipped,
	)
	return result, nil
}

func (row Row) toVerb() verb.Verb {
	example := strings.TrimSpace(row.Example)
	if example == "" {
		example = strings.TrimSpace(row.ExampleB2)
	}
	return verb.Verb{
		Infinitive:  strings.TrimSpace(row.Infinitive),
		Past:        strings.TrimSpace(row.Past),
		Participle:  strings.TrimSpace(row.Participle),
		Translation: strings.TrimSpace(row.Translation),
		Example:     example,
	}
}
