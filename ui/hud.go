// Package ui renders the heads-up display and the control panel.
package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Shape        string
	Morphing     bool
	MorphFactor  float32
	Spread       float32
	Elapsed      float32
	FPS          int32
	Particles    int
	Session      string
	LastError    string
	Paused       bool
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("murmur", 10, 10, 20, rl.White)

	shapeText := data.Shape
	if data.Morphing {
		shapeText = fmt.Sprintf("%s (%.0f%%)", data.Shape, data.MorphFactor*100)
	}
	rl.DrawText(
		fmt.Sprintf("Shape: %s | Particles: %d | FPS: %d", shapeText, data.Particles, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Spread: %.2f | T: %.1fs", data.Spread, data.Elapsed),
		10, 55, 16, rl.LightGray,
	)

	sessionColor := rl.Gray
	switch data.Session {
	case "recording":
		sessionColor = rl.Red
	case "uploading":
		sessionColor = rl.Yellow
	case "error":
		sessionColor = rl.Orange
	}
	sessionText := "Session: " + data.Session
	if data.LastError != "" {
		sessionText += " | " + data.LastError
	}
	rl.DrawText(sessionText, 10, 75, 16, sessionColor)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
