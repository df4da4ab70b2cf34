package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"github.com/usnistgov/hybrid-ctrl/device"
	"github.com/usnistgov/hybrid-ctrl/device/counterprom"
	"go.uber.org/zap"
)

func printCounters(cnt device.CounterSnapshot) error {
	j, e := json.Marshal(cnt)
	if e != nil {
		return e
	}
	fmt.Println(string(j))
	return nil
}

// serveCounters polls counters and publishes them on a Prometheus endpoint until the context is canceled.
func serveCounters(c *cli.Context, listen string, interval time.Duration) error {
	reg := prometheus.NewRegistry()
	x, e := counterprom.New(reg)
	if e != nil {
		return e
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: listen, Handler: mux}
	go func() {
		if e := srv.ListenAndServe(); e != nil && !errors.Is(e, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(e))
		}
	}()
	defer srv.Close()
	logger.Info("metrics server starting", zap.String("listen", listen), zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		cnt, e := dev.GetCounters()
		if e != nil {
			return e
		}
		x.Update(cnt)

		select {
		case <-c.Context.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	var listen string
	var interval time.Duration
	defineCommand(&cli.Command{
		Name:  "counters",
		Usage: "Read per-rack byte counters",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "metrics-listen",
				Usage:       "serve counters as Prometheus metrics on `address` instead of printing once",
				Destination: &listen,
			},
			&cli.DurationFlag{
				Name:        "interval",
				Usage:       "polling `interval` when serving metrics",
				Value:       time.Second,
				Destination: &interval,
			},
		},
		Action: withDevice(func(c *cli.Context) error {
			if listen != "" && !cmdout {
				return serveCounters(c, listen, interval)
			}
			cnt, e := dev.GetCounters()
			if e != nil {
				return cli.Exit(e, 1)
			}
			if cmdout {
				return nil
			}
			return printCounters(cnt)
		}),
	})
}

func init() {
	defineCommand(&cli.Command{
		Name:  "clear-counters",
		Usage: "Clear queue, link and traffic matrix counters",
		Action: withDevice(func(c *cli.Context) error {
			if e := dev.ClearCounters(); e != nil {
				return cli.Exit(e, 1)
			}
			return nil
		}),
	})
}
