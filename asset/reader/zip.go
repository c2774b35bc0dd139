package reader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/log"
	"github.com/achilleasa/meshbvh/mesh"
)

// zipReader loads every wavefront file stored in a zip archive and merges
// their triangles in archive order.
type zipReader struct {
	logger log.Logger
}

func newZipReader() *zipReader {
	return &zipReader{
		logger: log.New("zip reader"),
	}
}

// Read the triangles of all obj files in a zip archive.
func (p *zipReader) Read(res *asset.Resource) ([]mesh.Triangle, error) {
	p.logger.Noticef(`parsing mesh archive from "%s"`, res.Path())
	start := time.Now()

	// zip package requires a reader implementing ReaderAt. To work around
	// this requirement we read the entire zip file into memory and create
	// a reader from the bytes package that implements ReaderAt
	data, err := io.ReadAll(res)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zipReader: %s: %w", res.Path(), err)
	}

	var tris []mesh.Triangle
	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".obj") {
			p.logger.Warningf("unknown file %s in mesh zip file; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		entryTris, err := newWavefrontReader().Read(asset.NewResourceFromStream(f.Name, rc))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("zipReader: failed to load %s: %w", f.Name, err)
		}
		tris = append(tris, entryTris...)
	}

	p.logger.Noticef("loaded %d triangles in %d ms", len(tris), time.Since(start).Nanoseconds()/1e6)
	return tris, nil
}
