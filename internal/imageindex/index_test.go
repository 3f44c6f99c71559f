package imageindex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/features"
)

func solid(n int, c colormath.RGBA8) []colormath.RGBA8 {
	out := make([]colormath.RGBA8, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func sampleIndex(t *testing.T) *Index {
	t.Helper()
	idx := New("sample")
	if _, err := idx.Index("img/red.png", solid(16, colormath.RGBA8{R: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	mixed := []colormath.RGBA8{
		{R: 255, A: 255}, {R: 255, A: 255}, {G: 255, A: 255}, {A: 255},
	}
	if _, err := idx.Index(`img\mixed.png`, mixed); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.Index("img/blue.png", solid(9, colormath.RGBA8{B: 200, A: 128})); err != nil {
		t.Fatal(err)
	}
	return idx
}

func assertSameIndex(t *testing.T, got, want *Index) {
	t.Helper()
	if !reflect.DeepEqual(got.Records(), want.Records()) {
		t.Fatalf("records differ after round trip")
	}
	if !reflect.DeepEqual(got.pathOrder, want.pathOrder) {
		t.Fatalf("path order differs: %v vs %v", got.pathOrder, want.pathOrder)
	}
	for _, rec := range want.Records() {
		wp, _ := want.PathByID(rec.ID)
		gp, ok := got.PathByID(rec.ID)
		if !ok || gp != wp {
			t.Fatalf("PathByID(%s) = %q, %v; want %q", rec.ID, gp, ok, wp)
		}
		if !got.ContainsPath(wp) {
			t.Fatalf("ContainsPath(%q) = false", wp)
		}
	}
}

func TestIndexLookups(t *testing.T) {
	idx := sampleIndex(t)
	if idx.Len() != 3 || idx.Name() != "sample" {
		t.Fatalf("Len = %d, Name = %q", idx.Len(), idx.Name())
	}

	rec, ok := idx.LookupByPath("img/mixed.png")
	if !ok {
		t.Fatalf("mixed.png not found by slash path")
	}
	if rec.ID != features.ComputeID("img/mixed.png") {
		t.Fatalf("record id not derived from path")
	}
	if rec.BestColors[0] != (features.ColorInfo{Color: colormath.Pack(colormath.RGBA8{R: 255, A: 255}), Ratio: 0.5}) {
		t.Fatalf("BestColors[0] = %+v", rec.BestColors[0])
	}
	if p, ok := idx.PathByID(rec.ID); !ok || p != "img/mixed.png" {
		t.Fatalf("PathByID = %q, %v", p, ok)
	}
	if !idx.ContainsPath(`img\red.png`) {
		t.Fatalf("ContainsPath with backslashes failed")
	}
	if _, err := idx.RecordByPath("img/none.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("RecordByPath err = %v, want ErrNotFound", err)
	}
}

func TestIndexRejectsDuplicateWithoutChange(t *testing.T) {
	idx := sampleIndex(t)
	before, _ := idx.MarshalBinary()

	_, err := idx.Index("img/red.png", solid(4, colormath.RGBA8{G: 1}))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
	if err := idx.Add(`img\blue.png`, features.Record{}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Add err = %v, want ErrDuplicateID", err)
	}
	after, _ := idx.MarshalBinary()
	if !bytes.Equal(before, after) {
		t.Fatalf("index changed after rejected insert")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	idx := sampleIndex(t)
	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	if string(data[:4]) != Magic || binary.LittleEndian.Uint32(data[4:8]) != FormatVersion {
		t.Fatalf("missing header: % x", data[:8])
	}

	got := New("copy")
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	assertSameIndex(t, got, idx)

	again, _ := got.MarshalBinary()
	if !bytes.Equal(again, data) {
		t.Fatalf("re-encoding is not byte identical")
	}
}

func TestCodecLegacyLayout(t *testing.T) {
	idx := New("one")
	if _, err := idx.Index("a.png", solid(4, colormath.RGBA8{R: 1, G: 2, B: 3, A: 4})); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := idx.EncodeLegacy(&buf); err != nil {
		t.Fatalf("EncodeLegacy: %v", err)
	}
	data := buf.Bytes()

	id := features.ComputeID("a.png").String()
	// hashCount + (1+32 id) + (1+5 path) + recordCount + (1+32 id)
	// + 2*(4 + 5*12) + 3*256*4
	want := 4 + 33 + 6 + 4 + 33 + 2*(4+5*12) + 3*256*4
	if len(data) != want {
		t.Fatalf("legacy size = %d, want %d", len(data), want)
	}
	if binary.LittleEndian.Uint32(data[0:4]) != 1 || data[4] != 32 || string(data[5:37]) != id {
		t.Fatalf("unexpected hash table prefix: % x", data[:40])
	}
	if data[37] != 5 || string(data[38:43]) != "a.png" {
		t.Fatalf("unexpected path entry")
	}
	colors := data[4+33+6+4+33:]
	if binary.LittleEndian.Uint32(colors[0:4]) != 5 || binary.LittleEndian.Uint32(colors[4:8]) != 0x01020304 {
		t.Fatalf("unexpected colour block: % x", colors[:12])
	}

	got := New("one")
	if err := got.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("Decode legacy: %v", err)
	}
	assertSameIndex(t, got, idx)
}

func TestCodecEmptyIndex(t *testing.T) {
	for _, legacy := range []bool{false, true} {
		var buf bytes.Buffer
		var err error
		if legacy {
			err = New("e").EncodeLegacy(&buf)
		} else {
			err = New("e").Encode(&buf)
		}
		if err != nil {
			t.Fatal(err)
		}
		got := sampleIndex(t)
		if err := got.Decode(&buf); err != nil {
			t.Fatalf("Decode (legacy=%v): %v", legacy, err)
		}
		if got.Len() != 0 || got.ContainsPath("img/red.png") {
			t.Fatalf("decode did not replace state (legacy=%v)", legacy)
		}
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	idx := sampleIndex(t)
	var legacy bytes.Buffer
	if err := idx.EncodeLegacy(&legacy); err != nil {
		t.Fatal(err)
	}
	data := legacy.Bytes()

	le := binary.LittleEndian
	negative := le.AppendUint32(nil, 0xFFFFFFFF)

	// A record whose id has no entry in the hash table.
	hashSize := 4
	for _, p := range []string{"img/red.png", "img/mixed.png", "img/blue.png"} {
		hashSize += 1 + 32 + 1 + len(p)
	}
	orphan := append(le.AppendUint32(nil, 0), data[hashSize:]...)

	badVersion := append([]byte(Magic), le.AppendUint32(nil, 99)...)
	badVersion = append(badVersion, data...)

	cases := map[string][]byte{
		"truncated":      data[:len(data)-10],
		"empty":          {},
		"negative count": negative,
		"orphan record":  orphan,
		"bad version":    badVersion,
		"bad id":         append(le.AppendUint32(nil, 1), append([]byte{3}, "xyz"...)...),
		"long string":    append(le.AppendUint32(nil, 1), 0xff, 0xff, 0xff, 0xff, 0x0f),
	}
	for name, bad := range cases {
		got := sampleIndex(t)
		err := got.Decode(bytes.NewReader(bad))
		if !errors.Is(err, ErrFormat) {
			t.Errorf("%s: err = %v, want ErrFormat", name, err)
		}
		if got.Len() != 3 {
			t.Errorf("%s: index modified by failed decode", name)
		}
	}
}

func TestDecodeRejectsWrongColorCount(t *testing.T) {
	idx := New("x")
	if _, err := idx.Index("a.png", solid(1, colormath.RGBA8{A: 255})); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := idx.EncodeLegacy(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	off := 4 + 33 + 6 + 4 + 33
	binary.LittleEndian.PutUint32(data[off:], 4)

	if err := New("x").Decode(bytes.NewReader(data)); !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

// foreignLegacy returns a legacy stream holding one record for path under
// id instead of the id ComputeID derives. storedPath replaces path in the
// stream and must have the same length.
func foreignLegacy(t *testing.T, path, storedPath, id string) []byte {
	t.Helper()
	src := New("x")
	rec, err := src.Index(path, solid(4, colormath.RGBA8{G: 90, A: 255}))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := src.EncodeLegacy(&buf); err != nil {
		t.Fatal(err)
	}
	data := bytes.ReplaceAll(buf.Bytes(), []byte(rec.ID.String()), []byte(id))
	return bytes.ReplaceAll(data, []byte(features.CanonicalPath(path)), []byte(storedPath))
}

func TestIndexRejectsPathStoredUnderForeignID(t *testing.T) {
	const foreign = "0123456789abcdef0123456789abcdef"
	data := foreignLegacy(t, "Assets/a.png", "Assets/a.png", foreign)

	idx := New("legacy")
	if err := idx.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !idx.ContainsPath("Assets/a.png") {
		t.Fatalf("decoded path not found")
	}

	_, err := idx.Index("Assets/a.png", solid(4, colormath.RGBA8{R: 1, A: 255}))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Index same path: err = %v, want ErrDuplicateID", err)
	}
	err = idx.Add(`Assets\a.png`, features.Record{})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("Add same path: err = %v, want ErrDuplicateID", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len = %d after rejected inserts", idx.Len())
	}

	var out bytes.Buffer
	if err := idx.EncodeLegacy(&out); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), data) {
		t.Fatalf("re-encoded stream differs from input")
	}
	if err := New("again").Decode(bytes.NewReader(out.Bytes())); err != nil {
		t.Fatalf("Decode of re-encoded index: %v", err)
	}
}

func TestDecodeCanonicalisesLookupPaths(t *testing.T) {
	const foreign = "fedcba9876543210fedcba9876543210"
	// "é" is the NFD form of "é", one byte longer than NFC.
	cases := map[string][2]string{
		"backslash": {"Assets/a.png", `Assets\a.png`},
		"nfd":       {"Assets/caf\u00e9x.png", "Assets/cafe\u0301.png"},
	}
	for name, tc := range cases {
		data := foreignLegacy(t, tc[0], tc[1], foreign)
		idx := New(name)
		if err := idx.Decode(bytes.NewReader(data)); err != nil {
			t.Fatalf("%s: Decode: %v", name, err)
		}
		want := features.CanonicalPath(tc[1])
		if !idx.ContainsPath(tc[1]) || !idx.ContainsPath(want) {
			t.Errorf("%s: stored path %q not found by lookup", name, tc[1])
		}
		if _, err := idx.RecordByPath(want); err != nil {
			t.Errorf("%s: RecordByPath: %v", name, err)
		}
		if _, err := idx.Index(want, solid(1, colormath.RGBA8{A: 255})); !errors.Is(err, ErrDuplicateID) {
			t.Errorf("%s: re-index err = %v, want ErrDuplicateID", name, err)
		}
	}
}
