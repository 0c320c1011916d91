/*
PURPOSE:
  Discovers test image sets on disk and decodes image attributes from file names.

REQUIREMENTS:
  User-specified:
  - Every sub-directory of the image root is a test set.
  - Images are filtered by requested color profiles and formats.

  Implementation-discovered:
  - Attributes come from the file name: <profile>-<format>[-3d]-<name>.<ext>.
  - Texel counts are probed from raster headers for the Mtex/s metric.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine, internal/cli
  - Produces: internal/model.Image

ERROR HANDLING:
  - Directory errors are returned; undecodable file names are skipped.

USAGE:
  sets, err := testset.Discover("Test/Images")
  ts, err := testset.Load("Small", "Test/Images/Small", profiles, formats)
*/

package testset

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/outlawever/astc-encoder/internal/model"
	"github.com/outlawever/astc-encoder/internal/output"
)

// Extensions lists the image containers the encoders accept.
var Extensions = []string{
	".png", ".jpg", ".jpeg", ".tga", ".bmp", ".tif", ".tiff", ".webp",
	".gif", ".hdr", ".exr", ".ktx", ".dds",
}

var profiles = map[string]model.Profile{
	"ldr":  model.ProfileLDR,
	"ldrs": model.ProfileLDRSRGB,
	"hdr":  model.ProfileHDR,
}

var formats = map[string]model.Format{
	"l":    model.FormatL,
	"xy":   model.FormatXY,
	"rgb":  model.FormatRGB,
	"rgba": model.FormatRGBA,
}

// TestSet is a named, ordered collection of images.
type TestSet struct {
	Name  string
	Dir   string
	Tests []model.Image
}

// Discover lists the test set directories under root, sorted by name.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list test sets in %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ParseImage decodes image attributes from a path relative to the set directory.
// ok is false when the file is not a recognised test image.
func ParseImage(rel string) (img model.Image, ok bool) {
	ext := strings.ToLower(filepath.Ext(rel))
	if !slices.Contains(Extensions, ext) {
		return model.Image{}, false
	}

	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	parts := strings.Split(base, "-")
	if len(parts) < 3 {
		return model.Image{}, false
	}

	profile, ok := profiles[strings.ToLower(parts[0])]
	if !ok {
		return model.Image{}, false
	}
	format, ok := formats[strings.ToLower(parts[1])]
	if !ok {
		return model.Image{}, false
	}

	rest := parts[2:]
	is3D := false
	if strings.EqualFold(rest[0], "3d") {
		is3D = true
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return model.Image{}, false
	}

	return model.Image{
		TestFile: filepath.ToSlash(rel),
		Name:     strings.Join(rest, "-"),
		Is3D:     is3D,
		Profile:  profile,
		Format:   format,
	}, true
}

// Load walks dir and returns the images matching the profile and format filters.
func Load(name, dir string, wantProfiles []model.Profile, wantFormats []model.Format) (*TestSet, error) {
	ts := &TestSet{Name: name, Dir: dir}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		img, ok := ParseImage(rel)
		if !ok {
			output.Logger.Debug("Skipping non-test file", "set", name, "file", rel)
			return nil
		}
		if !slices.Contains(wantProfiles, img.Profile) || !slices.Contains(wantFormats, img.Format) {
			return nil
		}

		img.Path = path
		img.Texels = probeTexels(path)
		ts.Tests = append(ts.Tests, img)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load test set %s: %w", name, err)
	}

	output.Logger.Debug("Loaded test set", "set", name, "images", len(ts.Tests))
	return ts, nil
}

// probeTexels reads the image header for its size. Containers without a
// registered decoder (HDR, EXR, KTX, DDS, TGA) report 0.
func probeTexels(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0
	}
	return cfg.Width * cfg.Height
}
