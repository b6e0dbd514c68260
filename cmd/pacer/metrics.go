package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/baxromumarov/pacer/promstats"
)

// serveMetrics exposes src on addr under /metrics until the returned stop
// function is called. bound is the address actually listened on, which
// differs from addr when addr has port 0.
func serveMetrics(addr, name string, src promstats.Source, logger *zap.Logger) (stop func(), bound net.Addr, err error) {
	reg := prometheus.NewRegistry()
	c := promstats.NewCollector("pacer")
	c.Register(name, src)
	reg.MustRegister(c, collectors.NewGoCollector())

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen for metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.Stringer("addr", ln.Addr()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, ln.Addr(), nil
}
