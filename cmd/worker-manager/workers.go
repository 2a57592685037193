// cmd/worker-manager/workers.go
package main

import (
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"career-chat-workers/internal/bootstrap"
	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/logger"

	// AI conversation workers (9)
	ar "career-chat-workers/internal/workers/ai-conversation/analyze-resume"
	bias "career-chat-workers/internal/workers/ai-conversation/detect-bias"
	sent "career-chat-workers/internal/workers/ai-conversation/detect-sentiment"
	frd "career-chat-workers/internal/workers/ai-conversation/fetch-realtime-data"
	syn "career-chat-workers/internal/workers/ai-conversation/llm-synthesis"
	pui "career-chat-workers/internal/workers/ai-conversation/parse-user-intent"
	rc "career-chat-workers/internal/workers/ai-conversation/retrieve-context"
	sa "career-chat-workers/internal/workers/ai-conversation/structure-answer"
	up "career-chat-workers/internal/workers/ai-conversation/uplift-response"

	// Conversation workers (2)
	lc "career-chat-workers/internal/workers/conversation/load-conversation"
	sc "career-chat-workers/internal/workers/conversation/save-conversation"

	// User workers (2)
	upd "career-chat-workers/internal/workers/user/update-profile"
	sig "career-chat-workers/internal/workers/user/user-sign-up"

	// Infrastructure workers (1)
	br "career-chat-workers/internal/workers/infrastructure/build-response"
)

type registration = camunda.Registration

// buildRegistrations constructs every worker handler. Disabled workers are
// still built so configuration errors surface at start.
func buildRegistrations(cfg *config.Config, deps *bootstrap.Deps, log logger.Logger) ([]registration, error) {
	wc := func(taskType string) config.WorkerConfig {
		return config.GetWorkerConfig(cfg, taskType)
	}

	structurer, err := sa.NewHandler(sa.LoadConfig(wc(sa.TaskType), cfg.Structuring), log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sa.TaskType, err)
	}
	signUp, err := sig.NewHandler(sig.HandlerOptions{AppConfig: cfg, Users: deps.Users, Logger: log})
	if err != nil {
		return nil, err
	}
	update, err := upd.NewHandler(upd.HandlerOptions{AppConfig: cfg, Users: deps.Users, Logger: log})
	if err != nil {
		return nil, err
	}

	return []registration{
		{TaskType: pui.TaskType, Config: wc(pui.TaskType), Handler: pui.NewHandler(pui.LoadConfig(wc(pui.TaskType)), deps.Generator, log).Handle},
		{TaskType: sent.TaskType, Config: wc(sent.TaskType), Handler: sent.NewHandler(sent.LoadConfig(wc(sent.TaskType)), log).Handle},
		{TaskType: bias.TaskType, Config: wc(bias.TaskType), Handler: bias.NewHandler(bias.LoadConfig(wc(bias.TaskType)), deps.Generator, log).Handle},
		{TaskType: up.TaskType, Config: wc(up.TaskType), Handler: up.NewHandler(up.LoadConfig(wc(up.TaskType)), deps.Generator, log).Handle},
		{TaskType: rc.TaskType, Config: wc(rc.TaskType), Handler: rc.NewHandler(rc.LoadConfig(wc(rc.TaskType)), deps.Retriever, log).Handle},
		{TaskType: frd.TaskType, Config: wc(frd.TaskType), Handler: frd.NewHandler(frd.LoadConfig(wc(frd.TaskType)), deps.Realtime, log).Handle},
		{TaskType: syn.TaskType, Config: wc(syn.TaskType), Handler: syn.NewHandler(syn.LoadConfig(wc(syn.TaskType), cfg.APIs.GenAI, cfg.Conversation), deps.Generator, log).Handle},
		{TaskType: sa.TaskType, Config: wc(sa.TaskType), Handler: structurer.Handle},
		{TaskType: lc.TaskType, Config: wc(lc.TaskType), Handler: lc.NewHandler(lc.LoadConfig(wc(lc.TaskType), cfg.Conversation), deps.Conversations, deps.Generator, log).Handle},
		{TaskType: sc.TaskType, Config: wc(sc.TaskType), Handler: sc.NewHandler(sc.LoadConfig(wc(sc.TaskType)), deps.Conversations, log).Handle},
		{TaskType: sig.TaskType, Config: wc(sig.TaskType), Handler: signUp.Handle},
		{TaskType: upd.TaskType, Config: wc(upd.TaskType), Handler: update.Handle},
		{TaskType: ar.TaskType, Config: wc(ar.TaskType), Handler: ar.NewHandler(ar.LoadConfig(wc(ar.TaskType)), deps.Generator, log).Handle},
		{TaskType: br.TaskType, Config: wc(br.TaskType), Handler: br.NewHandler(br.LoadConfig(wc(br.TaskType), cfg.App), log).Handle},
	}, nil
}

func startAll(client zbc.Client, regs []registration, log logger.Logger) []worker.JobWorker {
	return camunda.StartWorkers(client, regs, log)
}

func taskTypes(regs []registration) []string {
	out := make([]string, len(regs))
	for i, r := range regs {
		out[i] = r.TaskType
	}
	return out
}
