package utils

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	pu "github.com/setanarut/pixelunsort"
)

// A permutation map file stores a permutation grid so it can be applied to
// other images later.
//
// Layout: magic "PMAP", width and height as big-endian uint32, then one zstd
// frame holding width*height (x, y) pairs of big-endian uint32, row-major.

const magicPMap = "PMAP"

var (
	ErrInvalidMagic = errors.New("pmap: invalid magic")
	ErrCorruptMap   = errors.New("pmap: map is not a permutation")
)

// EncodePermutation writes g to w.
func EncodePermutation(w io.Writer, g *pu.Grid[pu.Coord]) error {
	if uint64(g.W) > math.MaxUint32 || uint64(g.H) > math.MaxUint32 {
		return fmt.Errorf("pmap: grid %dx%d too large", g.W, g.H)
	}
	var hdr [12]byte
	copy(hdr[:4], magicPMap)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(g.W))
	binary.BigEndian.PutUint32(hdr[8:12], uint32(g.H))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithZeroFrames(true))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)
	var pair [8]byte
	for _, c := range g.Cells {
		binary.BigEndian.PutUint32(pair[:4], uint32(c.X))
		binary.BigEndian.PutUint32(pair[4:], uint32(c.Y))
		if _, err := bw.Write(pair[:]); err != nil {
			enc.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// DecodePermutation reads a grid written by EncodePermutation and checks
// that it is a permutation of its own coordinates.
func DecodePermutation(r io.Reader) (*pu.Grid[pu.Coord], error) {
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("pmap: read header: %w", err)
	}
	if string(hdr[:4]) != magicPMap {
		return nil, ErrInvalidMagic
	}
	w := int(binary.BigEndian.Uint32(hdr[4:8]))
	h := int(binary.BigEndian.Uint32(hdr[8:12]))

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	plain, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("pmap: decompress: %w", err)
	}
	if len(plain)%8 != 0 || uint64(len(plain)/8) != uint64(w)*uint64(h) {
		return nil, fmt.Errorf("%w: payload holds %d bytes for a %dx%d grid", ErrCorruptMap, len(plain), w, h)
	}

	g := pu.NewGrid[pu.Coord](w, h)
	for i := range g.Cells {
		p := plain[i*8 : i*8+8]
		g.Cells[i] = pu.Coord{
			X: int(binary.BigEndian.Uint32(p[:4])),
			Y: int(binary.BigEndian.Uint32(p[4:])),
		}
	}
	if !pu.IsPermutation(g) {
		return nil, ErrCorruptMap
	}
	return g, nil
}

func SavePermutation(g *pu.Grid[pu.Coord], filename string) error {
	var buf bytes.Buffer
	if err := EncodePermutation(&buf, g); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0o644)
}

func LoadPermutation(filename string) (*pu.Grid[pu.Coord], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodePermutation(bufio.NewReader(f))
}
