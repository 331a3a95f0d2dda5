// # internal/core/app/health.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bslint/internal/engine/program"
	"bslint/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "degraded"
		status.Components["request"] = err.Error()
		return status
	}

	if s.app == nil || s.app.program == nil {
		status.Status = "degraded"
		status.Components["program"] = "missing"
		return status
	}

	var files, contexts int
	s.app.WithProgram(func(p *program.Program) {
		files, contexts = p.FileCount(), p.ContextCount()
	})
	status.Components["program"] = fmt.Sprintf("ok (%d files, %d contexts)", files, contexts)
	status.Components["memory"] = fmt.Sprintf("%d MB heap", util.HeapAllocMB())

	last := s.app.LastUpdate()
	if last.ValidatedAt.IsZero() {
		status.Components["validation"] = "pending"
	} else {
		status.Components["validation"] = fmt.Sprintf("ok (%d errors, %d warnings at %s)",
			last.Counts.Errors, last.Counts.Warnings, last.ValidatedAt.Format(time.RFC3339))
	}

	if cycles := last.Cycles; len(cycles) > 0 {
		chains := make([]string, 0, len(cycles))
		for _, cycle := range cycles {
			chains = append(chains, strings.Join(cycle, " -> ")+" -> "+cycle[0])
		}
		status.Components["inheritance"] = fmt.Sprintf("%d cycles: %s", len(cycles), strings.Join(chains, "; "))
	} else if !last.ValidatedAt.IsZero() {
		status.Components["inheritance"] = "ok"
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	return status
}
