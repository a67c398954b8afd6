// Package phenotype writes built blueprints as a stream of JSON documents,
// optionally framed with zstd.
package phenotype

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/aabizri/robotsyr"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const bufferSize = 64 * 1024

// ErrUnencodable is returned by Encode for a document that has no JSON form,
// e.g. one holding an infinite length. Nothing is written for it and the
// encoder stays usable.
var ErrUnencodable = errors.New("document cannot be encoded")

// zstdMagic opens every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Document is one built robot.
type Document struct {
	Name      string                   `json:"name,omitempty"`
	Blueprint *robotsyr.RobotBlueprint `json:"blueprint"`

	// Bounds is the blueprint's bounding box under the export rotation.
	Bounds robotsyr.AABB `json:"bounds"`
}

// Encoder writes one JSON document per line.
type Encoder struct {
	bw *bufio.Writer
	zw *zstd.Encoder
}

// NewEncoder returns an encoder writing to w, compressing the whole stream
// when compress is set. Close must be called to flush it.
func NewEncoder(w io.Writer, compress bool) (*Encoder, error) {
	e := &Encoder{}
	if compress {
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		e.zw = zw
		w = zw
	}
	e.bw = bufio.NewWriterSize(w, bufferSize)
	return e, nil
}

// Encode writes doc on its own line. Any error other than ErrUnencodable
// comes from the underlying writer.
func (e *Encoder) Encode(doc *Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(ErrUnencodable, "%q: %v", doc.Name, err)
	}
	if _, err := e.bw.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

// Flush pushes buffered documents to the underlying writer. A compressed
// stream is flushed up to the end of the current zstd block.
func (e *Encoder) Flush() error {
	if err := e.bw.Flush(); err != nil {
		return err
	}
	if e.zw != nil {
		return e.zw.Flush()
	}
	return nil
}

// Close flushes the encoder and ends the zstd frame. It does not close the
// underlying writer.
func (e *Encoder) Close() error {
	if err := e.bw.Flush(); err != nil {
		return err
	}
	if e.zw != nil {
		return e.zw.Close()
	}
	return nil
}

// Decoder reads documents back, whether or not the stream was compressed.
type Decoder struct {
	zr  *zstd.Decoder
	dec *json.Decoder
}

func NewDecoder(r io.Reader) (*Decoder, error) {
	br := bufio.NewReaderSize(r, bufferSize)
	d := &Decoder{}

	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		d.zr = zr
		d.dec = json.NewDecoder(zr)
	} else {
		d.dec = json.NewDecoder(br)
	}
	return d, nil
}

// Decode returns the next document, or io.EOF at the end of the stream.
func (d *Decoder) Decode() (*Document, error) {
	doc := &Document{}
	if err := d.dec.Decode(doc); err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, errors.Wrap(err, "decoding phenotype")
	}
	return doc, nil
}

// Close releases the decompressor, if any.
func (d *Decoder) Close() {
	if d.zr != nil {
		d.zr.Close()
	}
}
