// Command taskprocessor-demo demonstrates the taskprocessor package: a
// registry of named, reference-counted task processors driven by the
// default, pooled, and inline listeners, with Prometheus metrics served
// over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TheEntropyCollective/taskprocessor/internal/diagnostics"
	"github.com/TheEntropyCollective/taskprocessor/internal/obslog"
	"github.com/TheEntropyCollective/taskprocessor/listener/inline"
	"github.com/TheEntropyCollective/taskprocessor/listener/pooled"
	"github.com/TheEntropyCollective/taskprocessor/metrics"
	"github.com/TheEntropyCollective/taskprocessor/taskprocessor"
)

func main() {
	var (
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn, or error")
		listenAddr  = flag.String("addr", "127.0.0.1:9102", "address to serve /metrics on")
		jobsPerProc = flag.Int("jobs", 50, "number of tasks to push to each demo processor")
		workers     = flag.Int("workers", 4, "worker count for the pooled listener demo processor")
		serve       = flag.Bool("serve", true, "serve /metrics until interrupted after the demo run")
	)
	flag.Parse()

	logger, err := obslog.New(obslog.Config{Level: *logLevel, Component: "taskprocessor-demo"})
	if err != nil {
		fmt.Fprintln(os.Stderr, diagnostics.Format(err))
		os.Exit(1)
	}

	if err := run(logger, *listenAddr, *jobsPerProc, *workers, *serve); err != nil {
		logger.Error("demo failed", obslog.Field("error", err))
		fmt.Fprintln(os.Stderr, diagnostics.Format(err))
		os.Exit(1)
	}
}

func run(logger *obslog.Logger, listenAddr string, jobsPerProc, workers int, serve bool) error {
	registry := taskprocessor.NewRegistry()
	collector := metrics.NewCollector(registry)
	reg := prometheus.NewRegistry()
	if err := reg.Register(collector); err != nil {
		return fmt.Errorf("registering collector: %w", err)
	}

	logger.Info("starting metrics server", obslog.Field("addr", listenAddr))
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		stats := registry.Stats()
		fmt.Fprintf(w, "processors=%d queued_tasks=%d\n", stats.Processors, stats.QueuedTasks)
	})
	srv := &http.Server{Addr: listenAddr, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", obslog.Field("error", err))
		}
	}()

	if err := runDefaultListenerDemo(logger, registry, jobsPerProc); err != nil {
		return fmt.Errorf("default listener demo: %w", err)
	}
	if err := runPooledListenerDemo(logger, jobsPerProc, workers); err != nil {
		return fmt.Errorf("pooled listener demo: %w", err)
	}
	if err := runInlineListenerDemo(logger, jobsPerProc); err != nil {
		return fmt.Errorf("inline listener demo: %w", err)
	}

	stats := registry.Stats()
	logger.Info("demo complete", map[string]interface{}{
		"processors":   stats.Processors,
		"queued_tasks": stats.QueuedTasks,
	})

	if !serve {
		return nil
	}
	logger.Info("serving metrics, press Ctrl+C to stop")
	select {}
}

// runDefaultListenerDemo drives a processor via Get, which uses the
// default single-worker listener, and waits for every pushed task to
// finish via a WaitGroup closed from inside each handler.
func runDefaultListenerDemo(logger *obslog.Logger, registry *taskprocessor.Registry, jobs int) error {
	log := logger.WithComponent("default-listener")
	tp, err := registry.Get("demo-default")
	if err != nil {
		return diagnostics.Wrap(err, "failed creating the default-listener demo processor")
	}
	defer tp.Unreference()

	var wg sync.WaitGroup
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		i := i
		if err := tp.Push(func(any) error {
			defer wg.Done()
			log.Debug("task executed", obslog.Field("index", i))
			return nil
		}, nil); err != nil {
			return err
		}
	}
	wg.Wait()
	log.Info("ran tasks on the default listener", obslog.Field("count", jobs))
	return nil
}

// runPooledListenerDemo drives a processor bound to listener/pooled,
// spreading execution across several worker goroutines.
func runPooledListenerDemo(logger *obslog.Logger, jobs, workerCount int) error {
	log := logger.WithComponent("pooled-listener")
	l := pooled.New(pooled.Config{WorkerCount: workerCount})
	tp, err := taskprocessor.CreateWithListener("demo-pooled", l)
	if err != nil {
		return diagnostics.Wrap(err, "failed creating the pooled-listener demo processor")
	}
	defer tp.Unreference()

	var wg sync.WaitGroup
	wg.Add(jobs)
	for i := 0; i < jobs; i++ {
		i := i
		if err := tp.Push(func(any) error {
			defer wg.Done()
			log.Debug("task executed", obslog.Field("index", i))
			return nil
		}, nil); err != nil {
			return err
		}
	}
	wg.Wait()
	log.Info("ran tasks on the pooled listener", map[string]interface{}{
		"count":      jobs,
		"dispatched": l.Dispatched(),
	})
	return nil
}

// runInlineListenerDemo drives a processor bound to listener/inline, which
// executes tasks synchronously on the pushing goroutine.
func runInlineListenerDemo(logger *obslog.Logger, jobs int) error {
	log := logger.WithComponent("inline-listener")
	tp, err := taskprocessor.CreateWithListener("demo-inline", inline.New())
	if err != nil {
		return diagnostics.Wrap(err, "failed creating the inline-listener demo processor")
	}
	defer tp.Unreference()

	var ran int
	for i := 0; i < jobs; i++ {
		i := i
		if err := tp.Push(func(any) error {
			ran++
			log.Debug("task executed", obslog.Field("index", i))
			return nil
		}, nil); err != nil {
			return err
		}
	}
	log.Info("ran tasks on the inline listener", obslog.Field("count", ran))
	return nil
}
