package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/ivlev/bvlc/internal/descriptor"
)

// RawExt is the file extension of raw descriptor dumps.
const RawExt = ".bvlc.zst"

const rawVersion = 1

var rawMagic = [4]byte{'B', 'V', 'L', 'C'}

// ErrBadRaw is returned when a raw dump has a wrong header or is truncated
var ErrBadRaw = errors.New("malformed raw descriptor")

// maxRawCells bounds the allocation made from an untrusted header.
const maxRawCells = 1 << 28

// WriteRaw stores the exact float64 values of m as a zstd stream:
// magic "BVLC", version byte, uint32 rows, uint32 cols, then rows*cols
// little-endian float64 values.
func WriteRaw(w io.Writer, m *descriptor.Grid) error {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(enc)
	var hdr [13]byte
	copy(hdr[:4], rawMagic[:])
	hdr[4] = rawVersion
	binary.LittleEndian.PutUint32(hdr[5:9], uint32(m.Rows))
	binary.LittleEndian.PutUint32(hdr[9:13], uint32(m.Cols))
	if _, err := bw.Write(hdr[:]); err != nil {
		enc.Close()
		return err
	}

	var buf [8]byte
	for _, v := range m.Pix {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
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

// ReadRaw decodes a stream written by WriteRaw.
func ReadRaw(r io.Reader) (*descriptor.Grid, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1), zstd.WithDecoderLowmem(true))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	var hdr [13]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadRaw, err)
	}
	if [4]byte(hdr[:4]) != rawMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadRaw, hdr[:4])
	}
	if hdr[4] != rawVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadRaw, hdr[4])
	}
	rows := int(binary.LittleEndian.Uint32(hdr[5:9]))
	cols := int(binary.LittleEndian.Uint32(hdr[9:13]))
	if rows > maxRawCells || cols > maxRawCells || rows*cols > maxRawCells {
		return nil, fmt.Errorf("%w: %dx%d map too large", ErrBadRaw, rows, cols)
	}

	m := descriptor.NewGrid(rows, cols)
	var buf [8]byte
	for i := range m.Pix {
		if _, err := io.ReadFull(br, buf[:]); err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrBadRaw, i, err)
		}
		m.Pix[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
	}
	return m, nil
}

// SaveRaw writes m to path with WriteRaw.
func SaveRaw(path string, m *descriptor.Grid) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRaw(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// LoadRaw reads a map saved by SaveRaw.
func LoadRaw(path string) (*descriptor.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRaw(f)
}
