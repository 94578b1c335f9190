package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"gridvale.ai/internal/persistence/indexdb"
	persistlog "gridvale.ai/internal/persistence/log"
	"gridvale.ai/internal/sim/behavior"
	"gridvale.ai/internal/sim/catalogs"
	"gridvale.ai/internal/sim/engine"
	"gridvale.ai/internal/sim/model"
	"gridvale.ai/internal/sim/scenario"
	"gridvale.ai/internal/sim/tuning"
	"gridvale.ai/internal/transport/trace"
)

func main() {
	var (
		configDir    = flag.String("configs", "./configs", "config directory")
		schemaDir    = flag.String("schemas", "./schemas", "schema directory")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		scenarioPath = flag.String("scenario", "", "path to scenario.yaml (default: <configs>/scenario.yaml)")
		ticks        = flag.Uint64("ticks", 0, "tick count override (0: use tuning)")
		seed         = flag.Int64("seed", 0, "seed override (0: use tuning)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite firing index")
		traceAddr    = flag.String("trace", "", "trace listen address override (empty: use tuning)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[behaviorsim] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Default()
	}
	if *ticks > 0 {
		tune.Ticks = *ticks
	}
	if *seed != 0 {
		tune.Seed = *seed
	}
	if strings.TrimSpace(*traceAddr) != "" {
		tune.TraceAddr = strings.TrimSpace(*traceAddr)
	}
	if *dataDir != "" {
		tune.DataDir = *dataDir
	}

	cats, err := catalogs.Load(*configDir, *schemaDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	logger.Printf("catalogs loaded: resources=%.12s tags=%.12s handlers=%.12s events=%.12s",
		cats.Resources.Digest, cats.Tags.Digest, cats.Handlers.Digest, cats.Events.Digest)

	var curTick atomic.Uint64

	svc := behavior.Services{
		Tags:   behavior.NewTagIndex(),
		Grid:   model.NewGrid(),
		Stats:  model.NewStats(),
		Groups: model.NewGroups(),
		RNG:    rand.New(rand.NewSource(tune.Seed)),
	}
	svc.Queries = behavior.NewQuerySystem(svc, curTick.Load)

	sp := strings.TrimSpace(*scenarioPath)
	if sp == "" {
		sp = filepath.Join(*configDir, "scenario.yaml")
	}
	sc, err := scenario.Load(sp, filepath.Join(*schemaDir, "scenario.schema.json"))
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	if err := sc.Seed(svc, &cats.Resources.Limits); err != nil {
		logger.Fatalf("seed scenario: %v", err)
	}
	logger.Printf("scenario seeded: %d entities, %d groups", len(sc.Entities), len(sc.Groups))

	rt, err := catalogs.Build(cats, svc)
	if err != nil {
		logger.Fatalf("build catalogs: %v", err)
	}
	svc.Queries.Init()

	if err := os.MkdirAll(tune.DataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}
	firingLog := persistlog.NewFiringLogger(tune.DataDir, tune.LogRotateEveryTicks)
	defer firingLog.Close()
	auditLog := persistlog.NewAuditLogger(tune.DataDir, tune.LogRotateEveryTicks)
	defer auditLog.Close()

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(tune.DataDir, "index.db"), tune.DBFlushEvery)
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Fatalf("record catalogs: %v", err)
		}
	}

	hub := trace.NewHub()
	if tune.TraceAddr != "" {
		traceSrv := trace.NewServer(hub, func() trace.Bootstrap {
			return trace.Bootstrap{
				ProtocolVersion: trace.Version,
				Tick:            curTick.Load(),
				Seed:            tune.Seed,
				CatalogDigests: map[string]string{
					"resources": cats.Resources.Digest,
					"tags":      cats.Tags.Digest,
					"handlers":  cats.Handlers.Digest,
					"events":    cats.Events.Digest,
				},
			}
		}, logger)
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/bootstrap", traceSrv.BootstrapHandler())
		mux.HandleFunc("/v1/ws", traceSrv.WSHandler())
		httpSrv := &http.Server{
			Addr:              tune.TraceAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Printf("trace listening on %s", tune.TraceAddr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Printf("trace server: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(sctx)
		}()
	}

	en := engine.New(svc, rt, engine.Config{InteractRadius: tune.InteractRadius}, engine.Hooks{
		OnFiring: func(rec behavior.FiringRecord) {
			if err := firingLog.WriteFiring(rec); err != nil {
				logger.Printf("firing log: %v", err)
			}
			_ = idx.WriteFiring(rec)
			hub.Publish(rec)
		},
		OnAudit: func(rec behavior.AuditRecord) {
			if err := auditLog.WriteAudit(rec); err != nil {
				logger.Printf("audit log: %v", err)
			}
			_ = idx.WriteAudit(rec)
		},
	})

	en.Audit(behavior.AuditRecord{Op: "run_start", Detail: fmt.Sprintf("seed=%d ticks=%d", tune.Seed, tune.Ticks)})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	var done uint64
	for t := uint64(1); t <= tune.Ticks; t++ {
		if ctx.Err() != nil {
			logger.Printf("interrupted at tick %d", done)
			break
		}
		curTick.Store(t)
		en.Tick(t)
		done = t
	}

	en.Audit(behavior.AuditRecord{Tick: done, Op: "run_end", Detail: fmt.Sprintf("entities=%d", len(svc.Grid.All()))})
	logger.Printf("run complete: %d ticks in %s, %d entities remain", done, time.Since(start).Round(time.Millisecond), len(svc.Grid.All()))
}
