// There
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of There.
//
// There is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// There is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with There.  If not, see <http://www.gnu.org/licenses/>.

package tui

import (
	"github.com/ZaparooProject/there/pkg/helpers/syncutil"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Theme defines all colors used in the TUI.
type Theme struct {
	Name                     string
	DisplayName              string
	PrimitiveBackgroundColor tcell.Color
	ContrastBackgroundColor  tcell.Color
	BorderColor              tcell.Color
	PrimaryTextColor         tcell.Color
	SecondaryTextColor       tcell.Color
	InverseTextColor         tcell.Color
	HeaderColor              tcell.Color
	AheadColor               tcell.Color
	BehindColor              tcell.Color
	SameColor                tcell.Color
}

// ThemeDefault is the dark blue/yellow theme.
var ThemeDefault = Theme{
	Name:        "default",
	DisplayName: "Default (Dark Blue)",

	PrimitiveBackgroundColor: tcell.ColorDarkBlue,
	ContrastBackgroundColor:  tcell.ColorBlue,
	BorderColor:              tcell.ColorLightYellow,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorGray,
	InverseTextColor:         tcell.ColorDarkBlue,

	HeaderColor: tcell.ColorYellow,
	AheadColor:  tcell.ColorGreen,
	BehindColor: tcell.ColorYellow,
	SameColor:   tcell.ColorGray,
}

// ThemeHighContrast uses true black background with bright yellow for accessibility.
var ThemeHighContrast = Theme{
	Name:        "high_contrast",
	DisplayName: "High Contrast",

	PrimitiveBackgroundColor: tcell.NewHexColor(0x000000),
	ContrastBackgroundColor:  tcell.NewHexColor(0x000000),
	BorderColor:              tcell.ColorYellow,
	PrimaryTextColor:         tcell.ColorWhite,
	SecondaryTextColor:       tcell.ColorWhite,
	InverseTextColor:         tcell.NewHexColor(0x000000),

	HeaderColor: tcell.ColorYellow,
	AheadColor:  tcell.ColorLime,
	BehindColor: tcell.ColorYellow,
	SameColor:   tcell.ColorWhite,
}

// ThemeNord uses the Nord arctic color palette with cool blue tones.
var ThemeNord = Theme{
	Name:        "nord",
	DisplayName: "Nord",

	PrimitiveBackgroundColor: tcell.NewHexColor(0x2E3440),
	ContrastBackgroundColor:  tcell.NewHexColor(0x3B4252),
	BorderColor:              tcell.NewHexColor(0x88C0D0),
	PrimaryTextColor:         tcell.NewHexColor(0xECEFF4),
	SecondaryTextColor:       tcell.NewHexColor(0xD8DEE9),
	InverseTextColor:         tcell.NewHexColor(0x2E3440),

	HeaderColor: tcell.NewHexColor(0x88C0D0),
	AheadColor:  tcell.NewHexColor(0xA3BE8C), // Nord green
	BehindColor: tcell.NewHexColor(0xEBCB8B), // Nord yellow
	SameColor:   tcell.NewHexColor(0x4C566A),
}

// ThemeMonogreen is a retro green-on-black theme inspired by classic CRT monitors.
var ThemeMonogreen = Theme{
	Name:        "monogreen",
	DisplayName: "Mono Green (Retro)",

	PrimitiveBackgroundColor: tcell.ColorBlack,
	ContrastBackgroundColor:  tcell.NewHexColor(0x0A1A0A),
	BorderColor:              tcell.ColorGreen,
	PrimaryTextColor:         tcell.ColorGreen,
	SecondaryTextColor:       tcell.ColorDarkGreen,
	InverseTextColor:         tcell.ColorBlack,

	HeaderColor: tcell.ColorLime,
	AheadColor:  tcell.ColorLime,
	BehindColor: tcell.ColorGreen,
	SameColor:   tcell.ColorDarkGreen,
}

// AvailableThemes maps theme names to theme definitions.
var AvailableThemes = map[string]*Theme{
	"default":       &ThemeDefault,
	"high_contrast": &ThemeHighContrast,
	"nord":          &ThemeNord,
	"monogreen":     &ThemeMonogreen,
}

// ThemeNames returns the list of available theme names in display order.
var ThemeNames = []string{
	"default",
	"high_contrast",
	"nord",
	"monogreen",
}

var (
	currentTheme = &ThemeDefault
	themeMu      syncutil.RWMutex
)

// CurrentTheme returns the currently active theme.
func CurrentTheme() *Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the current theme by name.
// Returns false if the theme name is not found.
func SetCurrentTheme(name string) bool {
	theme, ok := AvailableThemes[name]
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
	ApplyTheme(theme)
	return true
}

// ApplyTheme applies the given theme to tview's global styles.
func ApplyTheme(theme *Theme) {
	tview.Styles.PrimitiveBackgroundColor = theme.PrimitiveBackgroundColor
	tview.Styles.ContrastBackgroundColor = theme.ContrastBackgroundColor
	tview.Styles.BorderColor = theme.BorderColor
	tview.Styles.PrimaryTextColor = theme.PrimaryTextColor
	tview.Styles.SecondaryTextColor = theme.SecondaryTextColor
	tview.Styles.InverseTextColor = theme.InverseTextColor
}

// deltaColor picks the color for a delta: ahead of local time, behind it,
// or level with it.
func (t *Theme) deltaColor(hours, minutes int) tcell.Color {
	switch total := hours*60 + minutes; {
	case total > 0:
		return t.AheadColor
	case total < 0:
		return t.BehindColor
	default:
		return t.SameColor
	}
}
