package reader

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/meshbvh/asset"
	"github.com/achilleasa/meshbvh/log"
	"github.com/achilleasa/meshbvh/mesh"
	"github.com/achilleasa/meshbvh/types"
)

// wavefrontReader extracts triangle geometry from wavefront obj files.
// Normals, texture coordinates and materials are not needed by the index
// and are skipped.
type wavefrontReader struct {
	logger log.Logger

	vertexList []types.Vec3
	triangles  []mesh.Triangle

	// Number of objects/groups encountered.
	objects int

	// Include chain used for annotating errors.
	errStack []string
}

func newWavefrontReader() *wavefrontReader {
	return &wavefrontReader{
		logger: log.New("wavefront reader"),
	}
}

// Read the triangles defined by a wavefront resource.
func (r *wavefrontReader) Read(res *asset.Resource) ([]mesh.Triangle, error) {
	r.logger.Noticef(`parsing mesh from "%s"`, res.Path())
	start := time.Now()

	if err := r.parse(res); err != nil {
		return nil, err
	}

	r.logger.Noticef(
		"parsed %d triangles (%d vertices, %d objects) in %d ms",
		len(r.triangles), len(r.vertexList), r.objects, time.Since(start).Nanoseconds()/1e6,
	)
	return r.triangles, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *wavefrontReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)

	var errMsg string
	if file != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", msg, strings.Join(r.errStack, "\n"))
	}

	return fmt.Errorf("%s", strings.Trim(errMsg, "\n"))
}

func (r *wavefrontReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

func (r *wavefrontReader) popFrame() {
	r.errStack = r.errStack[1:]
}

func (r *wavefrontReader) parse(res *asset.Resource) error {
	lineNum := 0

	// Positive face indices in an included file are relative to the
	// vertices that file defines.
	relVertexOffset := len(r.vertexList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "call"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
			err = r.parse(incRes)
			incRes.Close()
			if err != nil {
				return err
			}
			r.popFrame()
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "g", "o":
			r.objects++
		case "f":
			tris, err := r.parseFace(lineTokens, relVertexOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.triangles = append(r.triangles, tris...)
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse a face definition. Faces with more than three vertices are
// assumed to be convex and are split into a triangle fan around their
// first vertex.
func (r *wavefrontReader) parseFace(lineTokens []string, relVertexOffset int) ([]mesh.Triangle, error) {
	if len(lineTokens) < 4 {
		return nil, fmt.Errorf(`unsupported syntax for "f"; expected at least 3 arguments; got %d`, len(lineTokens)-1)
	}

	vertices := make([]types.Vec3, len(lineTokens)-1)
	expIndices := 0
	for arg := range vertices {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return nil, fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		if vTokens[0] == "" {
			return nil, fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err := selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return nil, fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]
	}

	tris := make([]mesh.Triangle, 0, len(vertices)-2)
	for i := 1; i < len(vertices)-1; i++ {
		tris = append(tris, mesh.Triangle{V0: vertices[0], V1: vertices[i], V2: vertices[i+1]})
	}
	return tris, nil
}

// Given an index for a face coord calculate the proper offset into the
// coord list. Negative indices reference elements from the end of the
// coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int
	switch {
	case index < 0:
		vOffset = coordListLen + int(index)
	case index > 0:
		vOffset = relOffset + int(index-1)
	default:
		return -1, fmt.Errorf("index 0 is not valid")
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
