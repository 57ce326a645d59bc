// Command shears runs the handheld cutter side of the log-transfer system:
// the GPS line assembler and save-request coordinator (components B and G),
// and the connection supervisor driving a transfer.Session once a base
// connects (components C and F).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/mjmilez/Garden-E-Cutters/internal/indicator"
	"github.com/mjmilez/Garden-E-Cutters/internal/logger"
	"github.com/mjmilez/Garden-E-Cutters/internal/metrics"
	"github.com/mjmilez/Garden-E-Cutters/internal/nmea"
	"github.com/mjmilez/Garden-E-Cutters/internal/radio/simlink"
	"github.com/mjmilez/Garden-E-Cutters/internal/save"
	"github.com/mjmilez/Garden-E-Cutters/internal/serialport"
	"github.com/mjmilez/Garden-E-Cutters/internal/supervisor"
	"github.com/mjmilez/Garden-E-Cutters/internal/transfer"
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
	log := logger.Logger().With("component", "shears")

	collector := metrics.New("shears")
	prometheus.MustRegister(collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	// Line assembler + save coordinator (components B and G). The GPS
	// device is opened raw at its own baud (spec §4.B allows 9600 or
	// 115200); a save request has no software trigger wired in this build,
	// matching spec §4.G's "interrupt handler itself must never touch the
	// filesystem" — only the GPIO edge path would drive it on real
	// hardware, which is out of scope here.
	gpsPort, err := serialport.Open(cfg.gpsDevice, serialport.GPSBaud)
	if err != nil {
		log.Error("failed to open GPS device", "error", err)
		os.Exit(1)
	}
	defer gpsPort.Close()

	assembler := nmea.NewAssembler(gpsPort)
	csvLog := nmea.NewCSVLog(cfg.csvLogPath)
	recorder := nmea.NewRecorder(assembler, csvLog, nmea.WithMetrics(collector))
	coordinator := save.NewCoordinator(recorder, nil)

	g.Go(func() error { return assembler.Run(gctx) })
	g.Go(func() error { return coordinator.Run(gctx) })

	// Connection supervisor (components C and F) over the loopback radio
	// transport — the only transport this build wires in (spec §1: BLE
	// primitives out of scope). It advertises and waits for a base to
	// connect the same way it would over real BLE.
	ind := indicator.New(&logIndicatorDriver{log: log})
	g.Go(func() error { return ind.Run(gctx) })

	peripheral := simlink.NewPeripheral(20)
	source := transfer.NewDirFileSource(cfg.dataDir)
	shearsSupervisor := supervisor.NewShearsSupervisor(peripheral, source, ind, supervisor.WithShearsMetrics(collector))
	g.Go(func() error { return shearsSupervisor.Run(gctx) })

	if cfg.common.MetricsListen != "" {
		g.Go(func() error { return serveMetrics(gctx, cfg.common.MetricsListen) })
	}

	log.Info("shears started", "version", version, "data_dir", cfg.dataDir, "gps_device", cfg.gpsDevice)

	if err := g.Wait(); err != nil && gctx.Err() == nil {
		log.Error("task group exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("shears stopped")
}

// logIndicatorDriver stands in for a GPIO-driven LED: it logs transitions
// instead of driving hardware, since indicator.Driver is externalized
// deliberately (spec §4.F, §9).
type logIndicatorDriver struct {
	log *slog.Logger
}

func (d *logIndicatorDriver) Set(on bool) { d.log.Debug("indicator set", "on", on) }

func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
