package gbgfx

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/gbgfx/diag"
)

// Extensions used for automatic output paths.
const (
	TilemapExt  = ".tilemap"
	AttrmapExt  = ".attrmap"
	PalmapExt   = ".palmap"
	PalettesExt = ".pal"
)

// Paths names the files a Result is written to. Empty paths are skipped.
type Paths struct {
	TileData string
	Tilemap  string
	Attrmap  string
	Palmap   string
	Palettes string
}

// AutoPath returns base with its extension replaced by ext.
func AutoPath(base, ext string) string {
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// WriteFiles writes every requested artifact, but only if d holds no
// errors. Every file is written next to its destination first and the
// files are only renamed into place once all of them were written.
func (r *Result) WriteFiles(paths Paths, d *diag.Diagnostics) error {
	if d != nil {
		if err := d.Err(); err != nil {
			return err
		}
	}

	var tmps, dsts []string
	defer func() {
		for _, tmp := range tmps {
			os.Remove(tmp)
		}
	}()

	for _, f := range []struct {
		path string
		b    []byte
	}{
		{paths.TileData, r.TileData},
		{paths.Tilemap, r.Tilemap},
		{paths.Attrmap, r.Attrmap},
		{paths.Palmap, r.Palmap},
		{paths.Palettes, r.Palettes},
	} {
		if f.path == "" {
			continue
		}
		tmp, err := writeTemp(f.path, f.b)
		if err != nil {
			return err
		}
		tmps, dsts = append(tmps, tmp), append(dsts, f.path)
	}

	for i, tmp := range tmps {
		if err := os.Rename(tmp, dsts[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeTemp(path string, b []byte) (string, error) {
	f, err := ioutil.TempFile(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}

	if _, err = f.Write(b); err == nil {
		err = f.Chmod(0644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
