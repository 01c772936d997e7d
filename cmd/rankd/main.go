package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	_ "go.uber.org/automaxprocs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"rankd/api/grpcserver"
	"rankd/domain/multiset"
	"rankd/infra/checkpoint"
	"rankd/infra/kafka"
	"rankd/infra/sequence"
	"rankd/infra/wal"
	"rankd/jobs/broadcaster"
	"rankd/service"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	app := cli.App{
		Name:   "rankd",
		Usage:  "durable ordered multiset with rank and select over gRPC",
		Flags:  flags(),
		Action: runDaemon,
	}
	return app.Run(args)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runDaemon(cctx *cli.Context) error {
	cfg, err := configFromCLI(cctx)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Verbose).With("system", "rankd")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---------------- Checkpoint store ----------------

	store, err := checkpoint.Open(cfg.CheckpointDir, checkpoint.Options{Log: log})
	if err != nil {
		return err
	}
	defer store.Close()

	// ---------------- Recovery ----------------

	tree := multiset.NewRBTree[int64]()
	seqGen := sequence.New(0)
	if _, err := service.Recover(cfg.WALDir, store, tree, seqGen, log); err != nil {
		return fmt.Errorf("recovery failed: %w", err)
	}

	w, err := wal.Open(wal.Config{Dir: cfg.WALDir, SegmentSize: cfg.SegmentSize, Log: log})
	if err != nil {
		return err
	}
	defer w.Close()

	// ---------------- Service ----------------

	var sink service.EventSink
	if cfg.eventsEnabled() {
		p := kafka.NewProducer(kafka.Config{Brokers: cfg.KafkaBrokers, Topic: cfg.EventsTopic})
		defer p.Close()
		sink = p
		log.Info("publishing change events", "topic", cfg.EventsTopic)
	}
	svc := service.NewIndexService(tree, seqGen, w, sink, log)

	// ---------------- Listeners and producers ----------------
	//
	// Everything that can fail is opened before the first goroutine starts,
	// so an early return never leaves a job running.

	lis, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}
	defer lis.Close()

	var bc *broadcaster.Broadcaster
	if cfg.statsEnabled() {
		bc, err = broadcaster.Dial(svc, cfg.KafkaBrokers, broadcaster.Config{
			Topic:    cfg.StatsTopic,
			Interval: cfg.StatsInterval,
			Log:      log,
		})
		if err != nil {
			return err
		}
		defer bc.Close()
	}

	// ---------------- Background jobs ----------------

	g, gctx := errgroup.WithContext(ctx)

	cpDone := svc.StartCheckpointJob(gctx, store, cfg.CheckpointInterval)
	var bcDone <-chan struct{}
	if bc != nil {
		bcDone = bc.Start(gctx)
	}

	// ---------------- gRPC ----------------

	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(grpcserver.LoggingInterceptor(log)))
	grpcserver.RegisterMultisetServer(grpcSrv, grpcserver.NewServer(svc))

	g.Go(func() error {
		return grpcSrv.Serve(lis)
	})

	// ---------------- Metrics ----------------

	var metricsSrv *http.Server
	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: cfg.MetricsListen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		grpcSrv.GracefulStop()
		if metricsSrv != nil {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metricsSrv.Shutdown(sctx)
		}
		return nil
	})

	log.Info("startup complete", "listen", cfg.Listen, "metrics", cfg.MetricsListen, "seq", svc.Seq(), "count", svc.Count())
	runErr := g.Wait()
	<-cpDone
	if bcDone != nil {
		<-bcDone
	}

	if _, err := svc.Checkpoint(store); err != nil {
		log.Error("final checkpoint failed", "err", err)
		return errors.Join(runErr, err)
	}
	log.Info("shutdown complete")
	return runErr
}
