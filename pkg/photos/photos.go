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

package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZaparooProject/there/pkg/config"
	"github.com/ZaparooProject/there/pkg/helpers"
	"github.com/ZaparooProject/there/pkg/shared/httpclient"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/image/draw"

	// Extra decoders for avatar uploads.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxSize is the longest edge of a stored photo in pixels.
const MaxSize = 512

var (
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrOutsidePhotosDir = errors.New("path is outside the photos directory")
)

// Store keeps person avatars as PNG files in <data>/photos. Entries refer to
// a photo by its path relative to the data directory, e.g.
// "photos/1b4e28ba-2fa1-11d2-883f-0016d3cca427.png".
type Store struct {
	fs      afero.Fs
	client  *httpclient.Client
	dataDir string
}

func NewStore(fs afero.Fs, dataDir string) *Store {
	return &Store{
		fs:      fs,
		dataDir: dataDir,
		client:  httpclient.DefaultClient,
	}
}

// SetClient replaces the HTTP client used by SaveURL.
func (s *Store) SetClient(c *httpclient.Client) {
	s.client = c
}

func (s *Store) Dir() string {
	return filepath.Join(s.dataDir, config.PhotosDir)
}

// Save decodes data, scales it down to MaxSize and stores it as PNG.
func (s *Store) Save(data []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupportedImage, err)
	}
	img = fit(img, MaxSize)

	if err := s.fs.MkdirAll(s.Dir(), 0o750); err != nil {
		return "", fmt.Errorf("failed to create photos directory: %w", err)
	}

	name := uuid.New().String() + ".png"
	f, err := s.fs.Create(filepath.Join(s.Dir(), name))
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close photo file")
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode photo: %w", err)
	}

	rel := path.Join(config.PhotosDir, name)
	log.Debug().Str("format", format).Str("photo", rel).Msg("saved photo")
	return rel, nil
}

// SaveFile stores the image at src.
func (s *Store) SaveFile(src string) (string, error) {
	data, err := afero.ReadFile(s.fs, src)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}
	return s.Save(data)
}

// SaveURL downloads an image and stores it.
func (s *Store) SaveURL(ctx context.Context, url string) (string, error) {
	data, err := s.client.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to download photo: %w", err)
	}
	return s.Save(data)
}

// Resolve turns a stored photo reference into an absolute path. It refuses
// anything that doesn't point at a file inside the photos directory.
func (s *Store) Resolve(photo string) (string, error) {
	if photo == "" || filepath.IsAbs(photo) {
		return "", ErrOutsidePhotosDir
	}
	full := filepath.Join(s.dataDir, filepath.FromSlash(photo))
	dir := s.Dir()
	if full == filepath.Clean(dir) || !helpers.PathHasPrefix(full, dir) {
		return "", ErrOutsidePhotosDir
	}
	return full, nil
}

// Open decodes a stored photo.
func (s *Store) Open(photo string) (image.Image, error) {
	full, err := s.Resolve(photo)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close photo file")
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo: %w", err)
	}
	return img, nil
}

// Remove deletes a stored photo. A photo that is already gone is not an
// error.
func (s *Store) Remove(photo string) error {
	full, err := s.Resolve(photo)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	log.Debug().Str("photo", photo).Msg("removed photo")
	return nil
}

// IsStored reports whether photo looks like a reference made by Save.
func IsStored(photo string) bool {
	return strings.HasPrefix(photo, config.PhotosDir+"/") && strings.HasSuffix(photo, ".png")
}

// fit scales img down so neither edge exceeds maxSize.
func fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSize && h <= maxSize {
		return img
	}
	if w >= h {
		h = max(1, h*maxSize/w)
		w = maxSize
	} else {
		w = max(1, w*maxSize/h)
		h = maxSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
