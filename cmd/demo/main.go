package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Okabintaro/high-impact/config"
	"github.com/Okabintaro/high-impact/engine"
	"github.com/Okabintaro/high-impact/entity"
	"github.com/Okabintaro/high-impact/platform"
	"github.com/Okabintaro/high-impact/render"
	"github.com/Okabintaro/high-impact/script"
	"github.com/Okabintaro/high-impact/sound"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML engine config")
	levelPath := flag.String("level", "", "level file, overrides the config")
	scenePath := flag.String("scene", "", "tengo scene script to run instead of the demo scene")
	watch := flag.Bool("watch", false, "reload the level when it changes on disk")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	logger := zap.NewNop()
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
	}
	if *levelPath != "" {
		cfg.Level.Path = *levelPath
	}
	if *watch {
		cfg.Level.HotReload = true
	}

	files := platform.NewLoader(cfg.Engine.AssetDir)
	renderer := render.NewEbitenRenderer(logger)
	images := render.NewImageStore(files, logger)
	sounds := sound.NewStore(files, logger)

	eng, err := engine.New(engine.Deps{
		Log:      logger,
		Clock:    platform.NewRealClock(),
		Assets:   files,
		Images:   images,
		Renderer: renderer,
		Sounds:   sounds,
	})
	if err != nil {
		logger.Fatal("create engine", zap.Error(err))
	}
	eng.Gravity = cfg.Engine.Gravity
	eng.TimeScale = cfg.Engine.TimeScale
	eng.SetMaxTick(cfg.Engine.MaxTick)

	demo := NewDemoScene(cfg)
	eng.Entities().Register("player", func() entity.Entity { return NewPlayer(demo) })
	eng.Entities().Register("coin", func() entity.Entity { return &Coin{} })

	if *scenePath != "" {
		scn, err := script.Load(*scenePath)
		if err != nil {
			logger.Fatal("load scene script", zap.Error(err))
		}
		eng.SetScene(scn)
	} else {
		eng.SetScene(demo)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)

	game := newDemoGame(eng, renderer, cfg)
	if err := ebiten.RunGame(game); err != nil {
		logger.Fatal("run", zap.Error(err))
	}
}
