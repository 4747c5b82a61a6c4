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

package helpers

import (
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestPathHasPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		root     string
		expected bool
	}{
		{name: "inside", path: "/data/photos/a.png", root: "/data/photos", expected: true},
		{name: "exact", path: "/data/photos", root: "/data/photos", expected: true},
		{name: "trailing slash root", path: "/data/photos/a.png", root: "/data/photos/", expected: true},
		{name: "sibling with shared prefix", path: "/data/photos2/a.png", root: "/data/photos", expected: false},
		{name: "escapes with dotdot", path: "/data/photos/../user.db", root: "/data/photos", expected: false},
		{name: "empty root", path: "/data", root: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, PathHasPrefix(tt.path, tt.root))
		})
	}
}

func TestDataDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.DataDirEnv, dir)

	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, config.LogsDir), LogDir())
	assert.Equal(t, filepath.Join(dir, config.PhotosDir), PhotosDir())
	assert.Equal(t, filepath.Join(dir, config.LogsDir, config.LogFile), LogFilePath())
}

func TestConfigPathEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	t.Setenv(config.CfgEnv, path)

	assert.Equal(t, path, ConfigPath())
}

func TestConfigPathDefault(t *testing.T) {
	t.Setenv(config.CfgEnv, "")

	assert.Equal(t, filepath.Join(ConfigDir(), config.CfgFile), ConfigPath())
}
