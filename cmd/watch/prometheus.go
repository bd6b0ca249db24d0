package watch

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// prometheus.go serves the sampled interrupt rates as Prometheus gauges.

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var interruptRateGaugeVec = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "irqtune_interrupt_rate",
		Help: "Interrupts per second per IRQ",
	},
	[]string{"device", "irq"},
)

func startPrometheusServer(listenAddr string) {
	prometheus.MustRegister(interruptRateGaugeVec)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	slog.Info("Starting Prometheus metrics server", slog.String("address", listenAddr))
	go func() {
		server := &http.Server{
			Addr:              listenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 3 * time.Second,
		}
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Prometheus HTTP server ListenAndServe error", slog.String("error", err.Error()))
		}
	}()
}

func updatePrometheusRate(device string, irqNum int, rate float64) {
	interruptRateGaugeVec.With(prometheus.Labels{"device": device, "irq": strconv.Itoa(irqNum)}).Set(rate)
}
