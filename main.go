package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/milk9111/stackers/common"
	"github.com/milk9111/stackers/telemetry"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "level.yaml", "level prefab under prefabs/")
	tracing := flag.Bool("telemetry", false, "export stack traces over OTLP (reads OTEL_* from the environment or .env)")
	watch := flag.Bool("watch", false, "hot reload prefabs/ and prefabs/scripts/")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("note: .env not loaded: %v", err)
	}

	ctx := context.Background()
	tracer := telemetry.NoopTracer()
	if *tracing {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("telemetry: setup failed, running without it: %v", err)
		} else {
			tracer = telemetry.Tracer("stack")
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("telemetry: shutdown: %v", err)
				}
			}()
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("stackers")
	ebiten.SetTPS(tickRate)

	game, err := NewGame(Options{
		Debug:  *debug,
		Level:  *levelName,
		Watch:  *watch,
		Tracer: tracer,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
