// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"qa-workers/internal/archive"
	"qa-workers/internal/common/config"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/observability"
	"qa-workers/internal/llm"
	"qa-workers/internal/models"
	extractpagecontent "qa-workers/internal/workers/qa/extract-page-content"
	generatesearchquery "qa-workers/internal/workers/qa/generate-search-query"
	summarizepages "qa-workers/internal/workers/qa/summarize-pages"
	synthesizeanswer "qa-workers/internal/workers/qa/synthesize-answer"
	websearch "qa-workers/internal/workers/qa/web-search"
)

// Archiver stores answered questions.
type Archiver interface {
	Save(ctx context.Context, rec archive.Record) error
}

// Pipeline answers questions by running the five stages in order.
type Pipeline struct {
	mode config.Mode

	queryGenerator *generatesearchquery.Handler
	search         *websearch.Handler
	extractor      *extractpagecontent.Handler
	summarizer     *summarizepages.Handler
	synthesizer    *synthesizeanswer.Handler

	archive Archiver
	obs     *observability.Observability
	logger  logger.Logger
}

type options struct {
	generator llm.Generator
	pageCache extractpagecontent.PageCache
	archive   Archiver
	obs       *observability.Observability
}

type Option func(*options)

// WithGenerator replaces the model backend selected by use_cloud.
func WithGenerator(g llm.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithPageCache enables the extractor's page cache.
func WithPageCache(c extractpagecontent.PageCache) Option {
	return func(o *options) { o.pageCache = c }
}

// WithArchive records every answered question.
func WithArchive(a Archiver) Option {
	return func(o *options) { o.archive = a }
}

func WithObservability(obs *observability.Observability) Option {
	return func(o *options) { o.obs = obs }
}

// New wires the stage handlers for the configured backend mode.
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Pipeline, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	mode := cfg.Mode()
	if o.generator == nil {
		gen, err := llm.New(mode, cfg.Models, cfg.APIKeys.GeminiAPIKey)
		if err != nil {
			return nil, fmt.Errorf("create %s model backend: %w", mode, err)
		}
		o.generator = gen
	}
	if o.obs == nil {
		o.obs = observability.NewNoop()
	}

	var extractorOpts []extractpagecontent.Option
	if o.pageCache != nil {
		extractorOpts = append(extractorOpts, extractpagecontent.WithPageCache(o.pageCache))
	}

	return &Pipeline{
		mode:           mode,
		queryGenerator: generatesearchquery.NewHandler(generatesearchquery.LoadConfig(cfg), o.generator, log),
		search:         websearch.NewHandler(websearch.LoadConfig(cfg), log),
		extractor:      extractpagecontent.NewHandler(extractpagecontent.LoadConfig(cfg), log, extractorOpts...),
		summarizer:     summarizepages.NewHandler(summarizepages.LoadConfig(cfg), o.generator, log),
		synthesizer:    synthesizeanswer.NewHandler(synthesizeanswer.LoadConfig(cfg), o.generator, log),
		archive:        o.archive,
		obs:            o.obs,
		logger:         log.With(map[string]interface{}{"mode": string(mode)}),
	}, nil
}

// Mode returns the backend mode every stage uses.
func (p *Pipeline) Mode() config.Mode {
	return p.mode
}

// AnswerQuestion runs every stage for one question.
func (p *Pipeline) AnswerQuestion(ctx context.Context, question string) (string, error) {
	return p.answer(ctx, uuid.NewString(), question)
}

// AnswerQuestions answers each question in order. The first failure
// aborts the batch and no answers are returned.
func (p *Pipeline) AnswerQuestions(ctx context.Context, questions []string) (*models.Answers, error) {
	runID := uuid.NewString()
	log := p.logger.With(map[string]interface{}{"runId": runID})

	ctx, span := p.obs.StartSpan(ctx, "pipeline.answer_questions",
		attribute.String("run.id", runID),
		attribute.String("mode", string(p.mode)),
		attribute.Int("questions", len(questions)),
	)
	defer span.End()

	log.Info("processing questions", map[string]interface{}{
		"questionCount": len(questions),
	})

	answers := models.NewAnswers()
	for _, question := range questions {
		answer, err := p.answer(ctx, runID, question)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "question failed")
			return nil, fmt.Errorf("answer %q: %w", question, err)
		}
		answers.Set(question, answer)
	}

	span.SetStatus(codes.Ok, "")
	return answers, nil
}

func (p *Pipeline) answer(ctx context.Context, runID, question string) (answer string, err error) {
	start := time.Now()
	log := p.logger.With(map[string]interface{}{
		"runId":    runID,
		"question": question,
	})

	ctx, span := p.obs.StartSpan(ctx, "pipeline.question",
		attribute.String("run.id", runID),
		attribute.String("question", question),
	)
	defer func() {
		status := "ok"
		if err != nil {
			status = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, "question failed")
		}
		p.obs.RecordQuestion(ctx, string(p.mode), status, time.Since(start))
		span.End()
	}()

	log.Info("processing question", nil)

	log.Info("generating search query", nil)
	var query *generatesearchquery.Output
	err = p.stage(ctx, generatesearchquery.TaskType, func(ctx context.Context) (e error) {
		query, e = p.queryGenerator.Execute(ctx, &generatesearchquery.Input{Question: question})
		return e
	})
	if err != nil {
		return "", err
	}

	log.Info("performing web search", map[string]interface{}{"searchQuery": query.SearchQuery})
	var results *websearch.Output
	err = p.stage(ctx, websearch.TaskType, func(ctx context.Context) (e error) {
		results, e = p.search.Execute(ctx, &websearch.Input{SearchQuery: query.SearchQuery})
		return e
	})
	if err != nil {
		return "", err
	}

	log.Info("fetching and extracting pages", map[string]interface{}{"urlCount": len(results.URLs)})
	var pages *extractpagecontent.Output
	err = p.stage(ctx, extractpagecontent.TaskType, func(ctx context.Context) (e error) {
		pages, e = p.extractor.Execute(ctx, &extractpagecontent.Input{URLs: results.URLs})
		return e
	})
	if err != nil {
		return "", err
	}

	log.Info("summarizing pages", map[string]interface{}{"pageCount": len(pages.Pages)})
	var summaries *summarizepages.Output
	err = p.stage(ctx, summarizepages.TaskType, func(ctx context.Context) (e error) {
		summaries, e = p.summarizer.Execute(ctx, &summarizepages.Input{Pages: pages.Pages})
		return e
	})
	if err != nil {
		return "", err
	}

	log.Info("generating final answer", nil)
	var result *synthesizeanswer.Output
	err = p.stage(ctx, synthesizeanswer.TaskType, func(ctx context.Context) (e error) {
		result, e = p.synthesizer.Execute(ctx, &synthesizeanswer.Input{
			Question:  question,
			Summaries: summaries.Summaries,
		})
		return e
	})
	if err != nil {
		return "", err
	}

	if p.archive != nil {
		urls := make([]string, 0, len(summaries.Summaries))
		for _, s := range summaries.Summaries {
			urls = append(urls, s.URL)
		}
		if err := p.archive.Save(ctx, archive.Record{
			RunID:       runID,
			Question:    question,
			SearchQuery: query.SearchQuery,
			URLs:        urls,
			Answer:      result.Answer,
			Mode:        string(p.mode),
		}); err != nil {
			return "", err
		}
	}

	log.Info("question answered", map[string]interface{}{
		"duration": time.Since(start).String(),
	})
	return result.Answer, nil
}

// stage runs fn inside a span named after the stage.
func (p *Pipeline) stage(ctx context.Context, taskType string, fn func(context.Context) error) error {
	ctx, span := p.obs.StartSpan(ctx, "stage."+taskType, attribute.String("task.type", taskType))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, taskType+" failed")
		return err
	}
	return nil
}

