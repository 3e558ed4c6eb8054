package gltf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChicagoDave/citymesh/pkg/city"
	"github.com/ChicagoDave/citymesh/pkg/material"
	"github.com/ChicagoDave/citymesh/pkg/output"
)

// Mode selects how the binary payload is stored.
type Mode int

const (
	// Separated writes JSON to the target path and the payload to a sibling
	// ".bin" file referenced by buffer URI.
	Separated Mode = iota
	// Unified writes a single GLB container.
	Unified
)

func (m Mode) String() string {
	switch m {
	case Separated:
		return "separated"
	case Unified:
		return "unified"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Result describes a finished binary export.
type Result struct {
	Path      string `json:"path"`
	BinPath   string `json:"bin_path,omitempty"`
	Mode      string `json:"mode"`
	Materials int    `json:"materials"`
	Triangles int    `json:"triangles"`
	Bytes     int    `json:"bytes"`
}

// Export builds l and writes it to path in the given mode. Write failures
// match output.ErrUnwritable.
func Export(l *city.Layout, reg *material.Registry, path string, mode Mode) (Result, error) {
	res := Result{Path: path, Mode: mode.String()}

	doc, bin, err := Build(l, reg)
	if err != nil {
		return res, err
	}
	res.Materials = len(doc.Materials)
	res.Triangles = doc.Triangles()

	switch mode {
	case Separated:
		if len(bin) > 0 {
			binPath := output.ReplaceExt(path, ".bin")
			if err := output.WriteFile(binPath, bin); err != nil {
				return res, err
			}
			res.BinPath = binPath
			doc.Buffers[0].URI = filepath.Base(binPath)
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return res, fmt.Errorf("encoding glTF document: %w", err)
		}
		res.Bytes = len(data)
		return res, output.WriteFile(path, data)

	case Unified:
		data, err := json.Marshal(doc)
		if err != nil {
			return res, fmt.Errorf("encoding glTF document: %w", err)
		}
		glb := EncodeGLB(data, bin)
		res.Bytes = len(glb)
		return res, output.WriteFile(path, glb)
	}
	return res, fmt.Errorf("unknown export mode %v", mode)
}

// Read loads a document written by Export. GLB files are decoded directly;
// JSON files pull their payload from the buffer URI relative to path.
func Read(path string) (*Document, []byte, error) {
	data, bin, err := readContainer(path)
	if err != nil {
		return nil, nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing glTF document: %w", err)
	}
	if len(doc.Buffers) > 0 && doc.Buffers[0].URI != "" {
		bin, err = os.ReadFile(filepath.Join(filepath.Dir(path), doc.Buffers[0].URI))
		if err != nil {
			return nil, nil, fmt.Errorf("reading glTF buffer: %w", err)
		}
	}
	if len(doc.Buffers) > 0 && len(bin) < doc.Buffers[0].ByteLength {
		return nil, nil, fmt.Errorf("glTF buffer has %d bytes, document declares %d", len(bin), doc.Buffers[0].ByteLength)
	}
	return &doc, bin, nil
}

// ReadJSON returns the JSON text of a written document as stored on disk:
// the whole file for .gltf, the JSON chunk for .glb.
func ReadJSON(path string) ([]byte, error) {
	data, _, err := readContainer(path)
	return data, err
}

func readContainer(path string) (jsonData, bin []byte, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading glTF file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		return DecodeGLB(data)
	}
	return data, nil, nil
}
