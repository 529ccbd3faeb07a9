package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"voxelagent.ai/internal/agent"
	"voxelagent.ai/internal/behavior"
	"voxelagent.ai/internal/catalogs"
	"voxelagent.ai/internal/config"
	"voxelagent.ai/internal/gateway"
	"voxelagent.ai/internal/protocol"
	"voxelagent.ai/internal/record"
	"voxelagent.ai/internal/route"
	"voxelagent.ai/internal/world"
)

func main() {
	var (
		cfgPath   = flag.String("config", "configs/agent.yaml", "config file")
		configDir = flag.String("configs", "configs", "catalog directory")
		url       = flag.String("url", "", "gateway ws url (overrides config)")
		name      = flag.String("name", "", "agent name (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[agent] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *url != "" {
		cfg.Gateway.URL = *url
	}
	if *name != "" {
		cfg.Gateway.AgentName = *name
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("catalogs: %v", err)
	}
	logger.Printf("catalogs loaded: blocks=%s tools=%s recipes=%s",
		cats.Blocks.Digest[:12], cats.Tools.Digest[:12], cats.Recipes.Digest[:12])

	ws, err := gateway.Dial(cfg.Gateway.URL, logger)
	if err != nil {
		logger.Fatalf("dial %s: %v", cfg.Gateway.URL, err)
	}
	defer ws.Close()
	logger.Printf("connected to %s as %s", cfg.Gateway.URL, cfg.Gateway.AgentName)

	store := world.NewStore()
	solid := func(p world.Vec3i) bool {
		def, ok := cats.Blocks.Defs[store.BlockAt(p)]
		return ok && def.Solid
	}

	var gw gateway.Gateway = ws
	var rec *record.Recorder
	var eng *agent.Engine
	if cfg.Record.Enabled {
		idx, err := record.OpenSQLite(filepath.Join(cfg.Record.Dir, "sessions.db"))
		if err != nil {
			logger.Fatalf("session index: %v", err)
		}
		defer idx.Close()
		rec, err = record.New(cfg.Record.Dir, cfg.Gateway.AgentName, idx, logger)
		if err != nil {
			logger.Fatalf("recorder: %v", err)
		}
		defer rec.Close()
		logger.Printf("recording session %s under %s", rec.SessionID(), cfg.Record.Dir)

		gw = record.Tap(ws, rec, func() uint64 {
			if eng == nil {
				return 0
			}
			return eng.CurrentTick()
		})
	}

	eng = agent.NewEngine(cfg.Sim, gw, store, solid, logger)
	if rec != nil {
		eng.SetRecorder(rec)
	}

	deps := behavior.Deps{
		Cfg:      cfg,
		Engine:   eng,
		Gateway:  gw,
		Store:    store,
		Catalogs: cats,
		Planner:  &route.GridPlanner{Solid: solid},
		Log:      logger,
	}
	behavior.NewMovement(deps)
	behavior.NewMiner(deps)
	behavior.NewCombat(deps)
	behavior.NewCrafter(deps)

	if err := gw.Send(protocol.Say(cfg.Gateway.AgentName + " online")); err != nil {
		logger.Printf("greeting failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Printf("signal received, shutting down")
		cancel()
	}()

	go func() {
		for range eng.Defeated() {
			logger.Printf("defeated at tick %d", eng.CurrentTick())
		}
	}()

	err = eng.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Printf("stopped")
	case errors.Is(err, agent.ErrDisconnected):
		logger.Printf("gateway disconnected")
	case err != nil:
		logger.Fatalf("engine: %v", err)
	}
}
