package gltf

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	glbMagic   = 0x46546C67 // "glTF"
	glbVersion = 2

	chunkJSON = 0x4E4F534A
	chunkBIN  = 0x004E4942

	headerSize      = 12
	chunkHeaderSize = 8
)

// ErrMalformedGLB is returned by DecodeGLB for containers it cannot parse.
var ErrMalformedGLB = errors.New("malformed GLB container")

// EncodeGLB frames a JSON document and its binary payload into a GLB
// container. JSON is padded with spaces and the payload with zeros to four
// bytes. The BIN chunk is always written, with length 0 for an empty payload.
func EncodeGLB(jsonData, bin []byte) []byte {
	jsonPadded := pad4(append([]byte(nil), jsonData...), ' ')
	binPadded := pad4(append([]byte(nil), bin...), 0)

	total := headerSize + chunkHeaderSize + len(jsonPadded) + chunkHeaderSize + len(binPadded)

	out := make([]byte, 0, total)
	out = binary.LittleEndian.AppendUint32(out, glbMagic)
	out = binary.LittleEndian.AppendUint32(out, glbVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))

	out = binary.LittleEndian.AppendUint32(out, uint32(len(jsonPadded)))
	out = binary.LittleEndian.AppendUint32(out, chunkJSON)
	out = append(out, jsonPadded...)

	out = binary.LittleEndian.AppendUint32(out, uint32(len(binPadded)))
	out = binary.LittleEndian.AppendUint32(out, chunkBIN)
	out = append(out, binPadded...)
	return out
}

// DecodeGLB splits a GLB container into its JSON chunk and optional BIN
// chunk. Both are returned with their padding intact.
func DecodeGLB(data []byte) (jsonData, bin []byte, err error) {
	if len(data) < headerSize {
		return nil, nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformedGLB, len(data))
	}
	le := binary.LittleEndian
	if m := le.Uint32(data[0:4]); m != glbMagic {
		return nil, nil, fmt.Errorf("%w: bad magic %#08x", ErrMalformedGLB, m)
	}
	if v := le.Uint32(data[4:8]); v != glbVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedGLB, v)
	}
	if total := le.Uint32(data[8:12]); int(total) != len(data) {
		return nil, nil, fmt.Errorf("%w: length field %d, have %d bytes", ErrMalformedGLB, total, len(data))
	}

	off := headerSize
	for i := 0; off < len(data); i++ {
		if len(data)-off < chunkHeaderSize {
			return nil, nil, fmt.Errorf("%w: truncated chunk header at %d", ErrMalformedGLB, off)
		}
		n := int(le.Uint32(data[off : off+4]))
		typ := le.Uint32(data[off+4 : off+8])
		off += chunkHeaderSize
		if n < 0 || n > len(data)-off {
			return nil, nil, fmt.Errorf("%w: chunk %d length %d overruns container", ErrMalformedGLB, i, n)
		}
		chunk := data[off : off+n]
		off += n

		switch {
		case i == 0 && typ != chunkJSON:
			return nil, nil, fmt.Errorf("%w: first chunk is %#08x, want JSON", ErrMalformedGLB, typ)
		case i == 0:
			jsonData = chunk
		case i == 1 && typ == chunkBIN:
			bin = chunk
		}
		// Later chunks are extensions and are ignored.
	}
	if jsonData == nil {
		return nil, nil, fmt.Errorf("%w: no JSON chunk", ErrMalformedGLB)
	}
	return jsonData, bin, nil
}
