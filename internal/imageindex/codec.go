package imageindex

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/histogram"
)

// Magic starts every versioned index file. Files without it are read with
// the legacy layout.
const Magic = "CHIX"

// FormatVersion is the version written after Magic.
const FormatVersion uint32 = 1

const maxStringLen = 1 << 20

var byteOrder = binary.LittleEndian

// Encode writes the index in the versioned layout.
func (idx *Index) Encode(w io.Writer) error {
	return idx.encode(w, true)
}

// EncodeLegacy writes the index without the magic and version header.
func (idx *Index) EncodeLegacy(w io.Writer) error {
	return idx.encode(w, false)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (idx *Index) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := idx.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (idx *Index) UnmarshalBinary(data []byte) error {
	return idx.Decode(bytes.NewReader(data))
}

func (idx *Index) encode(w io.Writer, header bool) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	bw := bufio.NewWriter(w)
	enc := &encoder{w: bw}
	if header {
		enc.bytes([]byte(Magic))
		enc.put(FormatVersion)
	}

	enc.put(int32(len(idx.pathOrder)))
	for _, id := range idx.pathOrder {
		enc.string(id.String())
		enc.string(idx.paths[id])
	}

	enc.put(int32(len(idx.records)))
	for i := range idx.records {
		rec := &idx.records[i]
		enc.string(rec.ID.String())
		enc.colors(rec.BestColors)
		enc.colors(rec.BestShades)
		enc.put(rec.Histogram.R)
		enc.put(rec.Histogram.G)
		enc.put(rec.Histogram.B)
	}
	if enc.err != nil {
		return fmt.Errorf("cannot encode index %s: %w", idx.name, enc.err)
	}
	return bw.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
	buf [binary.MaxVarintLen64]byte
}

func (e *encoder) bytes(b []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(b)
	}
}

func (e *encoder) put(v any) {
	if e.err == nil {
		e.err = binary.Write(e.w, byteOrder, v)
	}
}

func (e *encoder) string(s string) {
	n := binary.PutUvarint(e.buf[:], uint64(len(s)))
	e.bytes(e.buf[:n])
	if e.err == nil {
		_, e.err = e.w.WriteString(s)
	}
}

func (e *encoder) colors(infos [features.TopColors]features.ColorInfo) {
	e.put(int32(len(infos)))
	for _, ci := range infos {
		e.put(uint32(ci.Color))
		e.put(ci.Ratio)
	}
}

// Decode replaces the contents of the index with the stream read from r.
// Both the versioned and the legacy layout are accepted. On error the index
// is left unchanged.
func (idx *Index) Decode(r io.Reader) error {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(Magic)); err == nil && string(head) == Magic {
		_, _ = br.Discard(len(Magic))
		var version uint32
		if err := binary.Read(br, byteOrder, &version); err != nil {
			return decodeErr("version", err)
		}
		if version != FormatVersion {
			return fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
		}
	}

	dec := &decoder{r: br}
	paths := map[features.ID]string{}
	var pathOrder []features.ID

	hashCount, err := dec.count("hash count")
	if err != nil {
		return err
	}
	for i := 0; i < hashCount; i++ {
		id, err := dec.id()
		if err != nil {
			return err
		}
		path, err := dec.string("path")
		if err != nil {
			return err
		}
		if _, dup := paths[id]; dup {
			return fmt.Errorf("%w: id %s listed twice", ErrFormat, id)
		}
		paths[id] = path
		pathOrder = append(pathOrder, id)
	}

	recordCount, err := dec.count("record count")
	if err != nil {
		return err
	}
	records := make([]features.Record, 0, min(recordCount, 1024))
	positions := make(map[string]int, min(recordCount, 1024))
	for i := 0; i < recordCount; i++ {
		rec, err := dec.record()
		if err != nil {
			return err
		}
		path, ok := paths[rec.ID]
		if !ok {
			return fmt.Errorf("%w: record %s has no path", ErrFormat, rec.ID)
		}
		// Files from other writers may hold backslash or NFD paths.
		canon := features.CanonicalPath(path)
		if _, dup := positions[canon]; dup {
			return fmt.Errorf("%w: path %s has two records", ErrFormat, path)
		}
		positions[canon] = len(records)
		records = append(records, rec)
	}

	idx.mu.Lock()
	idx.paths = paths
	idx.pathOrder = pathOrder
	idx.records = records
	idx.positions = positions
	idx.mu.Unlock()
	return nil
}

type decoder struct {
	r *bufio.Reader
}

func decodeErr(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrFormat, what)
	}
	return fmt.Errorf("cannot read %s: %w", what, err)
}

func (d *decoder) read(what string, v any) error {
	if err := binary.Read(d.r, byteOrder, v); err != nil {
		return decodeErr(what, err)
	}
	return nil
}

func (d *decoder) count(what string) (int, error) {
	var n int32
	if err := d.read(what, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrFormat, what, n)
	}
	return int(n), nil
}

func (d *decoder) string(what string) (string, error) {
	n, err := binary.ReadUvarint(d.r)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return "", decodeErr(what, err)
		}
		return "", fmt.Errorf("%w: %s length: %v", ErrFormat, what, err)
	}
	if n > maxStringLen {
		return "", fmt.Errorf("%w: %s length %d too large", ErrFormat, what, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return "", decodeErr(what, err)
	}
	return string(b), nil
}

func (d *decoder) id() (features.ID, error) {
	s, err := d.string("id")
	if err != nil {
		return features.ID{}, err
	}
	id, err := features.ParseID(s)
	if err != nil {
		return features.ID{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return id, nil
}

func (d *decoder) colors(what string) ([features.TopColors]features.ColorInfo, error) {
	var out [features.TopColors]features.ColorInfo
	n, err := d.count(what)
	if err != nil {
		return out, err
	}
	if n != features.TopColors {
		return out, fmt.Errorf("%w: %s has %d entries, want %d", ErrFormat, what, n, features.TopColors)
	}
	for i := range out {
		var packed uint32
		if err := d.read(what, &packed); err != nil {
			return out, err
		}
		if err := d.read(what, &out[i].Ratio); err != nil {
			return out, err
		}
		out[i].Color = colormath.Packed(packed)
	}
	return out, nil
}

func (d *decoder) record() (features.Record, error) {
	var rec features.Record
	var err error
	if rec.ID, err = d.id(); err != nil {
		return rec, err
	}
	if rec.BestColors, err = d.colors("best colors"); err != nil {
		return rec, err
	}
	if rec.BestShades, err = d.colors("best shades"); err != nil {
		return rec, err
	}
	var h histogram.Histogram
	for _, ch := range []*[histogram.Size]float32{&h.R, &h.G, &h.B} {
		if err := d.read("histogram", ch); err != nil {
			return rec, err
		}
	}
	rec.Histogram = h
	return rec, nil
}
