package city

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// layoutNamespace scopes layout IDs so they never collide with other
// name-based UUIDs derived from the same bytes.
var layoutNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("citymesh:layout"))

// Load reads a layout from a YAML or JSON file. Files ending in ".zst" are
// zstd-decompressed first.
func Load(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading layout file: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return Decode(r)
}

// Decode parses a layout document from r. JSON input is accepted as well
// since it is a subset of YAML.
func Decode(r io.Reader) (*Layout, error) {
	var l Layout
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing layout: empty document")
		}
		return nil, fmt.Errorf("parsing layout: %w", err)
	}
	if l.Zones == nil && l.Size > 0 {
		l.Zones = make([]ZoneType, l.Size*l.Size)
	}
	return &l, nil
}

// Save writes l as YAML. A ".zst" suffix compresses the output.
func Save(path string, l *Layout) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing layout file: %w", err)
	}

	var w io.Writer = f
	var zw *zstd.Encoder
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		zw, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("writing layout file: %w", err)
		}
		w = zw
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err = enc.Encode(l)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing layout file: %w", err)
	}
	return nil
}

// ID returns a name-based UUID derived from the canonical JSON encoding of
// the layout. Identical layouts always yield the same ID.
func (l *Layout) ID() uuid.UUID {
	data, err := json.Marshal(l)
	if err != nil {
		// Only reachable with out-of-range enum values.
		data = []byte(fmt.Sprintf("%#v", *l))
	}
	return uuid.NewSHA1(layoutNamespace, data)
}
