package reader

import (
	"fmt"
	"path"
	"strings"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/mesh"
)

// The Reader interface is implemented by all mesh readers.
type Reader interface {
	// Read a triangle soup from a resource.
	Read(*asset.Resource) ([]mesh.Triangle, error)
}

// Read a triangle soup from a local file or http(s) URL. The reader is
// selected based on the file extension.
func ReadMesh(filename string) ([]mesh.Triangle, error) {
	reader, err := readerFor(filename)
	if err != nil {
		return nil, err
	}

	res, err := asset.NewResource(filename, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return reader.Read(res)
}

func readerFor(filename string) (Reader, error) {
	switch strings.ToLower(path.Ext(filename)) {
	case ".obj":
		return newWavefrontReader(), nil
	case ".zip":
		return newZipReader(), nil
	}
	return nil, fmt.Errorf("readMesh: unsupported file format %q", path.Ext(filename))
}
