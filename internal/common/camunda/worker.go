// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"encoding/json"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/metrics"
)

// HandlerFunc is the signature every worker package's Handle method has.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Registration describes one job worker to open on the broker.
type Registration struct {
	TaskType string
	Config   config.WorkerConfig
	Handler  HandlerFunc
}

// StartWorkers opens a job worker per enabled registration and returns the
// opened workers so the caller can close them on shutdown.
func StartWorkers(client zbc.Client, regs []Registration, log logger.Logger) []worker.JobWorker {
	var opened []worker.JobWorker
	for _, reg := range regs {
		if !reg.Config.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": reg.TaskType})
			continue
		}

		jw := client.NewJobWorker().
			JobType(reg.TaskType).
			Handler(worker.JobHandler(instrument(reg.TaskType, reg.Handler))).
			MaxJobsActive(reg.Config.MaxJobsActive).
			Timeout(config.GetDuration(reg.Config.Timeout)).
			Open()
		opened = append(opened, jw)

		log.Info("worker started", map[string]interface{}{
			"taskType":      reg.TaskType,
			"maxJobsActive": reg.Config.MaxJobsActive,
			"timeout_ms":    reg.Config.Timeout,
		})
	}
	return opened
}

// instrument records active-job and duration metrics around a handler.
func instrument(taskType string, h HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
		start := time.Now()
		defer func() {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()
		h(client, job)
	}
}

// CompleteJob completes job with output as its variables.
func CompleteJob(client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		metrics.WorkerJobsFailed.WithLabelValues(job.Type, "VARIABLES_ENCODING").Inc()
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		log.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(job.Type).Inc()
}

// FailJob fails job with the given remaining retries. errorCode is logged
// and counted; the incident message is err's text.
func FailJob(client worker.JobClient, job entities.Job, err error, errorCode string, retries int32, log logger.Logger) {
	log.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": errorCode,
		"retries":   retries,
	})
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, errorCode).Inc()

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(err.Error()).
		Send(context.Background())
}

// ThrowError raises a BPMN error the process model can catch.
func ThrowError(client worker.JobClient, job entities.Job, errorCode, message string, vars map[string]interface{}, log logger.Logger) {
	log.Error("throwing BPMN error", map[string]interface{}{
		"jobKey":    job.Key,
		"errorCode": errorCode,
		"message":   message,
	})
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, errorCode).Inc()

	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(message)

	if len(vars) > 0 {
		if data, err := json.Marshal(vars); err == nil {
			if withVars, err := cmd.VariablesFromString(string(data)); err == nil {
				_, _ = withVars.Send(context.Background())
				return
			}
		}
	}
	_, _ = cmd.Send(context.Background())
}

// DecodeVariables unmarshals the job's variables into v.
func DecodeVariables(job entities.Job, v interface{}) error {
	return json.Unmarshal([]byte(job.Variables), v)
}
