package obj

import (
	"errors"
	"path/filepath"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/material"
	"github.com/ChicagoDave/citymesh/pkg/output"
	"github.com/ChicagoDave/citymesh/pkg/scene"
)

// Result describes a finished text export.
type Result struct {
	OBJPath  string      `json:"obj_path"`
	MTLPath  string      `json:"mtl_path,omitempty"`
	Vertices int         `json:"vertices"`
	Faces    int         `json:"faces"`
	Stats    scene.Stats `json:"stats"`
}

// Export writes l to path as OBJ and the palette to a sibling ".mtl" file.
//
// A failed sidecar does not stop the OBJ: it is written without an mtllib
// line, Result.MTLPath stays empty and the sidecar error is returned once the
// OBJ is complete. Failures match output.ErrUnwritable.
func Export(l *city.Layout, reg *material.Registry, path string) (Result, error) {
	res := Result{OBJPath: path}

	mtlPath := output.ReplaceExt(path, ".mtl")
	mtlErr := writeMaterialFile(mtlPath, reg)
	if mtlErr == nil {
		res.MTLPath = mtlPath
	}

	f, err := output.Create(path)
	if err != nil {
		return res, errors.Join(err, mtlErr)
	}

	w := NewWriter(f)
	err = w.Comment("citymesh layout " + l.ID().String())
	if err == nil && mtlErr == nil {
		err = w.MaterialLib(filepath.Base(mtlPath))
	}
	if err == nil {
		res.Stats, err = scene.Walk(l, reg, w)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	res.Vertices = w.Vertices()
	res.Faces = w.Faces()

	return res, errors.Join(output.Wrap(path, "write", err), mtlErr)
}

func writeMaterialFile(path string, reg *material.Registry) error {
	f, err := output.Create(path)
	if err != nil {
		return err
	}
	err = WriteMaterials(f, reg)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return output.Wrap(path, "write", err)
}
