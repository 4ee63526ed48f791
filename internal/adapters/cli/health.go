package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

// ErrUnhealthy is returned by the health command when a check is DOWN.
var ErrUnhealthy = errors.New("health check failed")

// HealthResponse follows Kubernetes/OpenShift health check conventions
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (a *App) runHealth(ctx context.Context) error {
	version := os.Getenv("APP_VERSION")
	if version == "" {
		version = "unknown"
	}

	checks := map[string]Check{
		"store":       a.checkStore(ctx),
		"submissions": a.checkSubmissions(ctx),
	}
	status := "UP"
	for _, c := range checks {
		if c.Status != "UP" {
			status = "DOWN"
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: a.clock.Now().UTC().Format(time.RFC3339),
		Version:   version,
		Checks:    checks,
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(response); err != nil {
		a.logger.Error("failed to encode health response", zap.Error(err))
	}

	if status != "UP" {
		return ErrUnhealthy
	}
	return nil
}

func (a *App) checkStore(ctx context.Context) Check {
	if a.store == nil {
		return Check{
			Status:  "DOWN",
			Message: "Store is not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.logger.Warn("store ping failed", zap.Error(err))
		return Check{
			Status:  "DOWN",
			Message: "Cannot connect to store",
		}
	}
	return Check{Status: "UP"}
}

func (a *App) checkSubmissions(ctx context.Context) Check {
	if a.log == nil {
		return Check{
			Status:  "DOWN",
			Message: "Submission log is not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	records, err := a.log.Load(ctx)
	if err != nil {
		var malformed *domain.MalformedLogError
		if errors.As(err, &malformed) {
			return Check{
				Status:  "DOWN",
				Message: fmt.Sprintf("Submission log %q is malformed", malformed.Key),
			}
		}
		return Check{
			Status:  "DOWN",
			Message: "Cannot read submission log",
		}
	}
	return Check{Status: "UP", Message: fmt.Sprintf("%d submissions", len(records))}
}
