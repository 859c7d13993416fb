// cmd/qa-runner/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"qa-workers/internal/common/config"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/observability"
	"qa-workers/internal/pipeline"
)

var questions = []string{
	"What is the capital of France?",
	"How does photosynthesis work?",
	"What are the benefits of regular exercise?",
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Error("config load failed", zap.Error(err))
		zapLog.Sync()
		return 1
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.Observability)
	if err != nil {
		zapLog.Error("observability setup failed", zap.Error(err))
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		obs.Shutdown(shutdownCtx)
	}()

	res, err := pipeline.OpenResources(ctx, cfg, log)
	if err != nil {
		zapLog.Error("resource setup failed", zap.Error(err))
		return 1
	}
	defer res.Close()

	opts := append(res.Options(), pipeline.WithObservability(obs))
	p, err := pipeline.New(cfg, log, opts...)
	if err != nil {
		zapLog.Error("pipeline setup failed", zap.Error(err))
		return 1
	}

	zapLog.Info("starting question answering",
		zap.String("mode", string(p.Mode())),
		zap.Int("questions", len(questions)),
	)

	answers, err := p.AnswerQuestions(ctx, questions)
	if err != nil {
		zapLog.Error("question answering failed", zap.Error(err))
		return 1
	}

	if err := pipeline.PrintAnswers(os.Stdout, answers); err != nil {
		zapLog.Error("print answers failed", zap.Error(err))
		return 1
	}
	return 0
}
