package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

type Config struct {
	Listen             string
	MetricsListen      string
	WALDir             string
	CheckpointDir      string
	SegmentSize        int64
	CheckpointInterval time.Duration
	KafkaBrokers       []string
	EventsTopic        string
	StatsTopic         string
	StatsInterval      time.Duration
	Verbose            bool
}

func flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "gRPC listen address",
			Value:   ":7450",
			EnvVars: []string{"RANKD_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "prometheus metrics listen address, empty to disable",
			Value:   ":7451",
			EnvVars: []string{"RANKD_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "wal-dir",
			Usage:   "directory for write-ahead log segments",
			Value:   "data/rankd/wal",
			EnvVars: []string{"RANKD_WAL_DIR"},
		},
		&cli.StringFlag{
			Name:    "checkpoint-dir",
			Usage:   "directory for the pebble checkpoint store",
			Value:   "data/rankd/checkpoint",
			EnvVars: []string{"RANKD_CHECKPOINT_DIR"},
		},
		&cli.Int64Flag{
			Name:    "segment-size",
			Usage:   "rotate WAL segments after this many bytes",
			Value:   64 << 20,
			EnvVars: []string{"RANKD_SEGMENT_SIZE"},
		},
		&cli.DurationFlag{
			Name:    "checkpoint-interval",
			Usage:   "how often to checkpoint the index and trim the WAL",
			Value:   time.Minute,
			EnvVars: []string{"RANKD_CHECKPOINT_INTERVAL"},
		},
		&cli.StringSliceFlag{
			Name:    "kafka-brokers",
			Usage:   "kafka bootstrap brokers; events and stats are disabled when empty",
			EnvVars: []string{"RANKD_KAFKA_BROKERS"},
		},
		&cli.StringFlag{
			Name:    "events-topic",
			Usage:   "topic for per-mutation change events, empty to disable",
			Value:   "rankd.events",
			EnvVars: []string{"RANKD_EVENTS_TOPIC"},
		},
		&cli.StringFlag{
			Name:    "stats-topic",
			Usage:   "topic for periodic distribution digests, empty to disable",
			Value:   "rankd.stats",
			EnvVars: []string{"RANKD_STATS_TOPIC"},
		},
		&cli.DurationFlag{
			Name:    "stats-interval",
			Usage:   "how often to publish the distribution digest",
			Value:   10 * time.Second,
			EnvVars: []string{"RANKD_STATS_INTERVAL"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "enable debug logging",
			EnvVars: []string{"RANKD_VERBOSE"},
		},
	}
}

func configFromCLI(cctx *cli.Context) (Config, error) {
	cfg := Config{
		Listen:             cctx.String("listen"),
		MetricsListen:      cctx.String("metrics-listen"),
		WALDir:             cctx.String("wal-dir"),
		CheckpointDir:      cctx.String("checkpoint-dir"),
		SegmentSize:        cctx.Int64("segment-size"),
		CheckpointInterval: cctx.Duration("checkpoint-interval"),
		KafkaBrokers:       cctx.StringSlice("kafka-brokers"),
		EventsTopic:        cctx.String("events-topic"),
		StatsTopic:         cctx.String("stats-topic"),
		StatsInterval:      cctx.Duration("stats-interval"),
		Verbose:            cctx.Bool("verbose"),
	}
	switch {
	case cfg.WALDir == "":
		return cfg, fmt.Errorf("--wal-dir is required")
	case cfg.CheckpointDir == "":
		return cfg, fmt.Errorf("--checkpoint-dir is required")
	case cfg.SegmentSize <= 0:
		return cfg, fmt.Errorf("--segment-size must be positive, got %d", cfg.SegmentSize)
	case cfg.CheckpointInterval <= 0:
		return cfg, fmt.Errorf("--checkpoint-interval must be positive, got %s", cfg.CheckpointInterval)
	case cfg.StatsInterval <= 0:
		return cfg, fmt.Errorf("--stats-interval must be positive, got %s", cfg.StatsInterval)
	}
	return cfg, nil
}

func (c Config) eventsEnabled() bool { return len(c.KafkaBrokers) > 0 && c.EventsTopic != "" }
func (c Config) statsEnabled() bool  { return len(c.KafkaBrokers) > 0 && c.StatsTopic != "" }
