package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// PanelState is what the control panel displays.
type PanelState struct {
	Shapes  []string
	Current string

	Spread    float32
	SpreadMin float32
	SpreadMax float32

	Recording bool
	CanRecord bool
}

// PanelActions reports what the user did this frame. Zero value means no
// action.
type PanelActions struct {
	Shape         string
	ToggleRecord  bool
	Spread        float32
	SpreadChanged bool
}

// Panel is the graphical control surface: shape buttons, a record toggle,
// and a spread slider.
type Panel struct {
	x, y float32
}

// NewPanel creates a panel anchored at the given screen position.
func NewPanel(x, y float32) *Panel {
	return &Panel{x: x, y: y}
}

// Draw renders the panel and returns the actions taken this frame.
func (p *Panel) Draw(state PanelState) PanelActions {
	var actions PanelActions

	x := p.x
	y := p.y

	rl.DrawText("Shapes", int32(x), int32(y), 14, rl.Gray)
	y += 20

	for _, name := range state.Shapes {
		label := name
		if name == state.Current {
			label = "> " + name
		}
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: 110, Height: 26}, label) {
			actions.Shape = name
		}
		y += 32
	}

	y += 8
	rl.DrawText("Spread", int32(x), int32(y), 14, rl.Gray)
	y += 18
	newSpread := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: 110, Height: 20},
		"", "",
		state.Spread, state.SpreadMin, state.SpreadMax,
	)
	if newSpread != state.Spread {
		actions.Spread = newSpread
		actions.SpreadChanged = true
	}
	y += 34

	recordLabel := "Record"
	if state.Recording {
		recordLabel = "Stop"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: 110, Height: 30}, recordLabel) && state.CanRecord {
		actions.ToggleRecord = true
	}

	return actions
}
