package vignette

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// App ties a Stage and an Engine to the ebiten game loop. It implements
// ebiten.Game.
type App struct {
	Stage  *Stage
	Engine *Engine
	cfg    Config
}

// NewApp builds a stage and engine from cfg. Scene scripts and local assets
// are read from assets; URLs with an http or https scheme, and every URL
// when cfg.AssetBase is set, go over the network. Nothing is loaded until
// Start.
func NewApp(cfg Config, content ContentProvider, assets fs.FS, opts ...EngineOption) (*App, error) {
	var local Fetcher
	if assets != nil {
		local = &FSFetcher{FS: assets}
	}
	remote := &HTTPFetcher{Base: cfg.AssetBase, Timeout: cfg.FetchTimeout}
	var fetcher Fetcher = &MuxFetcher{Remote: remote, Local: local}
	if cfg.AssetBase != "" {
		fetcher = remote
	}

	stage := NewStage(StageConfig{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Touch:      cfg.Touch,
		Fetcher:    fetcher,
		ClearColor: Color{0.08, 0.08, 0.1, 1},
	})
	stage.SetDebugMode(cfg.Debug)
	if cfg.CaptureDir != "" {
		stage.CaptureDir = cfg.CaptureDir
	}

	if cfg.TestScript != "" {
		data, err := os.ReadFile(cfg.TestScript)
		if err != nil {
			return nil, fmt.Errorf("vignette: read test script: %w", err)
		}
		runner, err := LoadTestScript(data)
		if err != nil {
			return nil, err
		}
		stage.SetTestRunner(runner)
	}

	opts = append([]EngineOption{WithScriptDir(cfg.ScriptDir)}, opts...)
	engine := NewEngine(stage, content, opts...)
	stage.Overlay = func() string {
		return fmt.Sprintf("scene: %s (%s)", engine.Current(), engine.State())
	}
	return &App{Stage: stage, Engine: engine, cfg: cfg}, nil
}

// Start loads the configured start scene.
func (a *App) Start() *Future[struct{}] {
	name := a.cfg.StartScene
	if name == "" {
		name = StartScene
	}
	return a.Engine.Load(name)
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	a.Stage.Update()
	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	a.Stage.Draw(screen)
}

// Layout implements ebiten.Game. The stage keeps a fixed logical size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := a.Stage.Size()
	return int(w), int(h)
}

// Run opens a window and plays the story until the window is closed.
func Run(cfg Config, content ContentProvider, assets fs.FS, opts ...EngineOption) error {
	app, err := NewApp(cfg, content, assets, opts...)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	app.Start()
	if err := ebiten.RunGame(app); err != nil {
		return fmt.Errorf("vignette: run: %w", err)
	}
	return nil
}
