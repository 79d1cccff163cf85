// Command mpscdemo runs a small work-queue service: a front end of
// producer goroutines feeds requests through one mpsc channel to a
// dispatcher that hands them to a bounded worker pool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/baxromumarov/mpsc"
	"github.com/baxromumarov/mpsc/chanx"
	"github.com/baxromumarov/mpsc/mpscprom"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type request struct {
	producer int
	seq      int
}

// deadline marks the watchdog sentinel.
var deadline = request{producer: -1, seq: -1}

type config struct {
	producers   int
	jobs        int
	workers     int
	timeout     time.Duration
	metricsAddr string
	logLevel    string
}

func parseFlags() config {
	var c config
	flag.IntVar(&c.producers, "producers", 4, "number of front-end producers")
	flag.IntVar(&c.jobs, "jobs", 250, "requests sent by each producer")
	flag.IntVar(&c.workers, "workers", 8, "worker pool size")
	flag.DurationVar(&c.timeout, "timeout", 10*time.Second, "stop consuming after this long")
	flag.StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()
	return c
}

func main() {
	cfg := parseFlags()

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("finished with errors")
		os.Exit(1)
	}
}

func run(cfg config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tx, rx := mpsc.Unbounded[request]()
	defer rx.Close()

	pool := mpsc.NewPool(ctx, cfg.workers,
		mpsc.WithPoolLogger(log.WithField("component", "pool")),
		mpsc.WithPoolMetrics(time.Second, func(s mpsc.PoolStats) {
			log.WithFields(logrus.Fields{
				"submitted": s.Submitted,
				"completed": s.Completed,
				"in_flight": s.InFlight,
				"queued":    s.QueueDepth,
			}).Info("pool stats")
		}),
	)

	if cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			mpscprom.NewQueueDepthGauge("mpscdemo", "requests", rx),
			mpscprom.NewPoolCollector("mpscdemo", "workers", pool),
		)
		srv := &http.Server{
			Addr:    cfg.metricsAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.WithField("addr", cfg.metricsAddr).Info("serving metrics")
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()
	disarm := chanx.Watchdog(deadlineCtx, tx, deadline)
	defer disarm()

	var producers sync.WaitGroup
	for p := range cfg.producers {
		producers.Add(1)
		go func(s *mpsc.Sender[request]) {
			defer producers.Done()
			produce(p, cfg.jobs, s, log)
		}(tx.Clone())
	}
	tx.Close()

	// The armed watchdog holds a sender, so release it once the front end
	// is done or the channel would stay open until the deadline.
	go func() {
		producers.Wait()
		disarm()
	}()

	start := time.Now()
	received := 0
	for req := range rx.All() {
		if req == deadline {
			log.Warn("deadline reached, no longer accepting requests")
			break
		}
		received++
		if err := pool.Submit(func() error { return handle(req) }); err != nil {
			log.WithError(err).Error("submit failed")
			break
		}
	}

	err := pool.Close()
	s := pool.Stats()
	log.WithFields(logrus.Fields{
		"received":  received,
		"completed": s.Completed,
		"errored":   s.Errored,
		"dropped":   s.Dropped,
		"elapsed":   time.Since(start).Round(time.Millisecond),
	}).Info("done")
	return err
}

func produce(id, jobs int, tx *mpsc.Sender[request], log *logrus.Logger) {
	defer tx.Close()
	l := log.WithField("producer", id)
	for seq := range jobs {
		if err := tx.Send(request{producer: id, seq: seq}); err != nil {
			l.WithError(err).Debug("producer stopped")
			return
		}
		if seq%50 == 0 {
			time.Sleep(time.Duration(rand.IntN(5)) * time.Millisecond)
		}
	}
	l.Debug("producer finished")
}

func handle(req request) error {
	time.Sleep(time.Duration(rand.IntN(500)) * time.Microsecond)
	if req.seq > 0 && req.seq%97 == 0 {
		return fmt.Errorf("request %d/%d: simulated failure", req.producer, req.seq)
	}
	return nil
}
