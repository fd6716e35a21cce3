package startup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/revittco/mcptoolkit/internal/dbtools"
	"github.com/revittco/mcptoolkit/internal/kernel"
	"github.com/revittco/mcptoolkit/internal/modules"
	"github.com/revittco/mcptoolkit/internal/rpc"
	"github.com/revittco/mcptoolkit/internal/transport/stdio"
	"github.com/revittco/mcptoolkit/internal/webtools"
)

// ServerName and ServerVersion identify this process in initialize's
// serverInfo.
const (
	ServerName    = "mcptoolkit"
	ServerVersion = "0.1.0"
)

// Orchestrator wires the registry, modules, JSON-RPC kernel, and stdio
// transport together and drives the process lifecycle: validate
// environment, discover and initialize modules, attach the transport,
// block until it stops, tear down.
type Orchestrator struct {
	cfg       Config
	registry  *kernel.Registry
	host      *modules.Host
	dbMgr     *dbtools.Manager
	transport *stdio.Transport

	shutdownOnce sync.Once
}

// New builds an Orchestrator wired against os.Stdin/os.Stdout.
func New(cfg Config) *Orchestrator {
	registry := kernel.NewRegistry()
	host := modules.NewHost(registry)

	dbModule, dbMgr := dbtools.Module()
	host.Add(dbModule)
	host.Add(webtools.Module())

	return &Orchestrator{
		cfg:       cfg,
		registry:  registry,
		host:      host,
		dbMgr:     dbMgr,
		transport: stdio.New(os.Stdin, os.Stdout),
	}
}

// Run executes the full startup sequence and blocks until the
// transport stops (EOF on stdin, or an OS interrupt signal). Returns a
// FatalError-class error on anything that prevents reaching that point.
func (o *Orchestrator) Run(ctx context.Context) error {
	slog.SetLogLoggerLevel(o.cfg.LogLevel)

	if err := o.host.InitializeAll(); err != nil {
		return fmt.Errorf("initialize modules: %w", err)
	}

	o.connectPresets(ctx)

	k := rpc.New(o.registry, rpc.ServerInfo{Name: ServerName, Version: ServerVersion})
	o.transport.SetMessageHandler(func(ctx context.Context, line []byte) []byte {
		return k.Handle(ctx, line)
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		o.shutdown()
	}()

	err := o.transport.Start(ctx)
	o.shutdown()

	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// connectPresets opens the database connections named in mcptoolkit.yaml
// (if MCPTOOLKIT_CONFIG was set) before the transport starts accepting
// calls. A preset that fails to connect is logged and skipped; it does
// not prevent startup, since connect_database remains available to
// retry it at the caller's discretion.
func (o *Orchestrator) connectPresets(ctx context.Context) {
	for _, p := range o.cfg.PresetConnections {
		if err := o.dbMgr.Connect(ctx, p.ID, p.Config); err != nil {
			slog.Warn("preset connection failed", "connection_id", p.ID, "error", err)
		}
	}
}

func (o *Orchestrator) shutdown() {
	o.shutdownOnce.Do(func() {
		slog.Info("Graceful shutdown initiated")
		o.transport.Stop()
		o.dbMgr.CloseAll()
		o.host.UnloadAll()
	})
}
