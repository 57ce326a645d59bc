// Command hub runs the stationary gateway side of the log-transfer system:
// the connection supervisor that scans for a shears and drives a
// transfer.Reception to completion (components D and F), the single
// pending-request slot (component H), and the serial uplink to the host
// (component E).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/mjmilez/Garden-E-Cutters/internal/indicator"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/metrics"
	"github.com/mjmilez/Garden-E-Cutters/internal/pending"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio/simlink"
	"github.com/mjmilez/Garden-E-Cutters/internal/serialport"
	"github.com/mjmilez/Garden-E-Cutters/internal/supervisor"
	"github.com/mjmilez/Garden-E-Cutters/internal/transfer"
	"github.com/mjmilez/Garden-E-Cutters/internal/uplink"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if cfg.showVersion {
		fmt.Println(version)
		return
	}

	logger.Init()
	if err := logger.SetLevel(cfg.common.LogLevel); err != nil {
		fmt.Printf("warning: invalid log level %q, using default\n", cfg.common.LogLevel)
	}
	log := logger.Logger().With("component", "hub")

	collector := metrics.New("hub")
	prometheus.MustRegister(collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Serial uplink to the host (component E), fixed at 115200 8N1.
	hostPort, err := serialport.Open(cfg.common.SerialDevice, serialport.HostUplinkBaud)
	if err != nil {
		log.Error("failed to open host serial device", "error", err)
		os.Exit(1)
	}
	defer hostPort.Close()
	sink := &meteredSink{writer: uplink.NewWriter(hostPort), collector: collector}

	// Connection supervisor + pending-request queue (components D, F, H)
	// over the loopback radio transport, the only transport this build
	// wires in (spec §1: BLE primitives out of scope). This build pairs its
	// own central with an internally managed peripheral serving a demo
	// directory, so the hub binary is exercisable standalone via the
	// /request HTTP trigger below without a second physical shears.
	ind := indicator.New(&logIndicatorDriver{log: log})
	g.Go(func() error { return ind.Run(gctx) })

	peripheral := simlink.NewPeripheral(20)
	central := simlink.NewCentral(peripheral)

	var pendingQueue pending.Queue
	base := supervisor.NewBaseSupervisor(central, sink, &pendingQueue, ind, supervisor.WithBaseMetrics(collector))
	g.Go(func() error { return base.Run(gctx) })

	demoShears := supervisor.NewShearsSupervisor(peripheral, transfer.NewDirFileSource(demoDir()), nil, supervisor.WithShearsMetrics(collector))
	g.Go(func() error { return demoShears.Run(gctx) })

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/request", func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "missing name query parameter", http.StatusBadRequest)
			return
		}
		base.RequestLog(name)
		w.WriteHeader(http.StatusAccepted)
	})

	if cfg.common.MetricsListen != "" {
		g.Go(func() error { return serveHTTP(gctx, cfg.common.MetricsListen, mux) })
	}

	log.Info("hub started", "version", version, "serial_device", cfg.common.SerialDevice)

	if err := g.Wait(); err != nil && gctx.Err() == nil {
		log.Error("task group exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("hub stopped")
}

// demoDir resolves a directory the embedded demo shears peer serves files
// from, creating it if absent.
func demoDir() string {
	dir := filepath.Join(os.TempDir(), "wm-hub-demo")
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

// meteredSink wraps the uplink writer to also increment the metrics
// collector's chunk/transfer counters (ambient observability, spec §9).
type meteredSink struct {
	writer    *uplink.Writer
	collector *metrics.Collector
}

func (m *meteredSink) TransferStart() error {
	return m.writer.TransferStart()
}

func (m *meteredSink) TransferDone() error {
	m.collector.TransferCompleted()
	return m.writer.TransferDone()
}

func (m *meteredSink) TransferError() error {
	m.collector.TransferErrored()
	return m.writer.TransferError()
}

func (m *meteredSink) LogLine(payload []byte) error {
	m.collector.ChunkReceived()
	return m.writer.LogLine(payload)
}

type logIndicatorDriver struct {
	log *slog.Logger
}

func (d *logIndicatorDriver) Set(on bool) { d.log.Debug("indicator set", "on", on) }

func serveHTTP(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
