// cmd/server runs the screen-config preview service: a store of screen
// documents, a plan endpoint, and a websocket live-preview channel.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/venkatesh3007/flexui/internal/live"
	"github.com/venkatesh3007/flexui/internal/render"
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/server"
	"github.com/venkatesh3007/flexui/internal/store"
	"github.com/venkatesh3007/flexui/internal/theme"
	"github.com/venkatesh3007/flexui/internal/value"
)

type config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	DatabaseDSN string `env:"DATABASE_URL" envDefault:"file:flexui.db"`
}

// builtinComponents is the node-type vocabulary the preview service plans
// against. Factories here only mark a type as known; real view construction
// happens in the mobile renderers.
var builtinComponents = []string{
	"container", "column", "row", "text", "image", "button",
	"spacer", "divider", "card", "input", "list",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parsing environment: %v", err)
	}

	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	bus := live.NewBus(256)
	bus.Start(ctx)

	components := render.NewComponentRegistry()
	for _, name := range builtinComponents {
		components.Register(name, func(entry *render.Entry, _ *schema.Theme) (render.View, error) {
			return entry, nil
		})
	}

	host := &theme.HostContext{
		Device: map[string]value.Value{"platform": value.String("server")},
		App:    map[string]value.Value{"version": value.String(schema.DefaultVersion)},
	}

	planner := render.New(components, host)
	srv := server.New(st, bus, planner)

	if err := srv.Run(ctx, cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
	bus.Wait()
}
