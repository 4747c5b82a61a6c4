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

package assets

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/ZaparooProject/there/pkg/config"
)

// TrayIcon is a monochrome clock used as a template image in the menu bar.
//
//go:embed icons/tray.png
var TrayIcon []byte

// AboutText is the body of the About dialog.
func AboutText(now time.Time) string {
	return fmt.Sprintf(
		"There\nVersion %s\n\n© %d The Zaparoo Project Contributors\nLicense: GPLv3",
		config.AppVersion,
		now.Year(),
	)
}
