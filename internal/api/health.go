package api

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type HealthChecker interface {
	HealthCheck() echo.HandlerFunc
}

// Pinger is satisfied by *pgxpool.Pool and the in-memory store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthChecker struct {
	health *health.Health
}

func NewHealthChecker(version string, checks ...health.Config) (HealthChecker, error) {
	h, err := health.New(health.WithComponent(health.Component{Name: "taskboard", Version: version}))
	if err != nil {
		return nil, errors.Wrap(err, "create health checker")
	}

	for _, check := range checks {
		if err = h.Register(check); err != nil {
			return nil, errors.Wrapf(err, "register health check %s", check.Name)
		}
	}

	return &healthChecker{
		health: h,
	}, nil
}

// StorageCheck reports the storage backend unavailable when a ping fails.
func StorageCheck(name string, p Pinger) health.Config {
	return health.Config{
		Name:      name,
		Timeout:   2 * time.Second,
		SkipOnErr: false,
		Check:     health.CheckFunc(p.Ping),
	}
}

func (h *healthChecker) HealthCheck() echo.HandlerFunc {
	return echo.WrapHandler(h.health.Handler())
}
