// Package vignette is a scene-sequencing engine for picture stories on
// [Ebitengine].
//
// A story is a series of scenes. Each scene is a vertical column of
// components (image panels, choices, navigation buttons) that load their
// content, fade in one after another, and hand off to the next scene when the
// reader moves on.
//
// # Quick start
//
// The simplest way to get started is [Run], which reads scene scripts from an
// [io/fs.FS], opens a window and plays the start scene:
//
//	cfg, _ := vignette.ParseEnv()
//	flow, _ := vignette.LoadFlow(assets, "flow.yaml")
//	vignette.Run(cfg, flow, assets)
//
// For full control, build the pieces yourself and drive the [Stage] from your
// own [ebiten.Game]:
//
//	stage := vignette.NewStage(vignette.StageConfig{Width: 480, Height: 800})
//	engine := vignette.NewEngine(stage, flow)
//	engine.Load("start")
//
//	func (g *Game) Update() error        { g.stage.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.stage.Draw(s) }
//
// # Scenes
//
// A scene is either a Go [SceneFunc] registered with [Engine.RegisterScene]
// or a Lua script fetched from <script dir>/<name>.lua. Scripts create
// components and append them:
//
//	ready(function(ctx)
//	  local pic = create("panel", {image = "images/sky.png", caption = "Dusk"})
//	  local go = create("next-button", {label = "Continue"})
//	  append({pic, go})
//	end)
//
// Appended components reveal in order. Each waits for its own load and at
// least [RevealDwell] from when that load began.
//
// # Flow
//
// A [ContentProvider] decides which scene follows which. [Flow] is the YAML
// implementation: plain successors, branches on a context key, and keys
// carried across scenes.
//
// # Input
//
// The [Stage] resolves "start", "move" and "end" to touch or pointer event
// names depending on [TouchMode]. [Draggable] and [Button] turn those events
// into drags and taps.
//
// [Ebitengine]: https://ebitengine.org
package vignette
