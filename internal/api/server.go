// Package api exposes the benchmark over a small REST surface: device
// enumeration and on-demand benchmark runs returning the full report.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/mmbench/internal/bench"
	"github.com/samcharles93/mmbench/internal/device"
	"github.com/samcharles93/mmbench/internal/logger"
	"github.com/samcharles93/mmbench/internal/matmul"
)

// maxOrder caps requested matrix orders; the simulated device pays a
// goroutine per work item and a request should not be able to wedge the
// process.
const maxOrder = 1024

// Server runs benchmarks on behalf of HTTP clients.
type Server struct {
	log logger.Logger
}

func NewServer(log logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	return &Server{log: log}
}

// Register attaches the API routes.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/devices", s.handleDevices)
	e.POST("/v1/benchmarks", s.handleBenchmark)
}

// DeviceInfo describes one enumerable device.
type DeviceInfo struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	ComputeUnits int    `json:"compute_units"`
	MaxGroupSize int    `json:"max_group_size"`
}

func (s *Server) handleDevices(c *echo.Context) error {
	devs := device.Devices()
	data := make([]DeviceInfo, 0, len(devs))
	for _, d := range devs {
		data = append(data, DeviceInfo{
			Index:        d.Index,
			Name:         d.Name,
			ComputeUnits: d.ComputeUnits,
			MaxGroupSize: d.MaxGroupSize,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"devices": data})
}

// BenchmarkRequest configures one benchmark run. Zero values select the
// defaults.
type BenchmarkRequest struct {
	Order  int `json:"order"`
	Trials int `json:"trials"`
	Device int `json:"device"`
	Local  int `json:"local"`
}

func (s *Server) handleBenchmark(c *echo.Context) error {
	req, err := decodeJSON[BenchmarkRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	cfg := bench.Config{
		Order:       req.Order,
		Trials:      req.Trials,
		DeviceIndex: req.Device,
		LocalSize:   req.Local,
	}.WithDefaults()
	if cfg.Order > maxOrder {
		return writeBadRequest(c, fmt.Sprintf("order %d exceeds limit %d", cfg.Order, maxOrder))
	}

	dev, err := device.Select(cfg.DeviceIndex)
	if err != nil {
		if errors.Is(err, device.ErrDeviceIndex) {
			return writeBadRequest(c, err.Error())
		}
		return writeServerError(c, err.Error())
	}

	ctx, err := device.NewContext(dev, matmul.Program())
	if err != nil {
		return writeServerError(c, err.Error())
	}
	defer ctx.Release()

	runner, err := bench.New(cfg, ctx, s.log, io.Discard)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	report, err := runner.Run()
	if err != nil {
		s.log.Error("benchmark request failed", "err", err)
		return writeServerError(c, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeServerError(c *echo.Context, msg string) error {
	return writeError(c, http.StatusInternalServerError, "server_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": apiError{Message: msg, Type: errType},
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
