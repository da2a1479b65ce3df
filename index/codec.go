package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"

	"github.com/lumenvcs/lumen/internal/githash"
	"github.com/lumenvcs/lumen/plumbing"
	"golang.org/x/xerrors"
)

var (
	signature = [4]byte{'D', 'I', 'R', 'C'}

	// version is the only index format version this engine writes or
	// reads. Git also defines 3 and 4 (extended flags, name
	// compression); neither is needed here.
	version uint32 = 2

	// ErrInvalidIndex is returned when the header, an entry, or the
	// trailer checksum doesn't match the expected format.
	ErrInvalidIndex = errors.New("invalid index")
)

const (
	headerSize     = 12
	entryFixedSize = 4*10 + plumbing.OidSize + 2 // metadata + packed id + path length
	trailerSize    = githash.Size
)

// Encode renders the index to its on-disk binary form: header, entries
// in path order, SHA-1 trailer of everything preceding it.
func Encode(idx *Index) []byte {
	entries := idx.Entries()

	buf := new(bytes.Buffer)
	buf.Write(signature[:])
	writeU32(buf, version)
	writeU32(buf, uint32(len(entries)))

	for _, e := range entries {
		encodeEntry(buf, e)
	}

	sum := githash.Sum(buf.Bytes())
	buf.Write(sum[:])
	return buf.Bytes()
}

func encodeEntry(buf *bytes.Buffer, e Entry) {
	start := buf.Len()

	writeU32(buf, uint32(e.CTime.Unix()))
	writeU32(buf, uint32(e.CTime.Nanosecond()))
	writeU32(buf, uint32(e.MTime.Unix()))
	writeU32(buf, uint32(e.MTime.Nanosecond()))
	writeU32(buf, e.Dev)
	writeU32(buf, e.Ino)
	writeU32(buf, uint32(e.Mode))
	writeU32(buf, e.UID)
	writeU32(buf, e.GID)
	writeU32(buf, e.Size)
	buf.Write(e.ID.Bytes())

	pathBytes := []byte(e.Path)
	writeU16(buf, uint16(len(pathBytes)))
	buf.Write(pathBytes)
	buf.WriteByte(0)

	written := buf.Len() - start
	for written%8 != 0 {
		buf.WriteByte(0)
		written++
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

// Decode parses the on-disk binary form of an index, validating the
// header, every entry, and the trailing checksum.
func Decode(data []byte) (*Index, error) {
	if len(data) < headerSize+trailerSize {
		return nil, xerrors.Errorf("truncated index: %w", ErrInvalidIndex)
	}

	body, trailer := data[:len(data)-trailerSize], data[len(data)-trailerSize:]
	sum := githash.Sum(body)
	if !bytes.Equal(sum[:], trailer) {
		return nil, xerrors.Errorf("checksum mismatch: %w", ErrInvalidIndex)
	}

	if !bytes.Equal(body[:4], signature[:]) {
		return nil, xerrors.Errorf("missing DIRC signature: %w", ErrInvalidIndex)
	}
	ver := binary.BigEndian.Uint32(body[4:8])
	if ver != version {
		return nil, xerrors.Errorf("unsupported index version %d: %w", ver, ErrInvalidIndex)
	}
	count := binary.BigEndian.Uint32(body[8:12])

	idx := New()
	offset := headerSize
	for i := uint32(0); i < count; i++ {
		e, n, err := decodeEntry(body[offset:])
		if err != nil {
			return nil, xerrors.Errorf("entry %d: %w", i, err)
		}
		idx.AddEntry(e)
		offset += n
	}
	if offset != len(body) {
		return nil, xerrors.Errorf("trailing garbage after last entry: %w", ErrInvalidIndex)
	}

	return idx, nil
}

func decodeEntry(b []byte) (Entry, int, error) {
	if len(b) < entryFixedSize {
		return Entry{}, 0, xerrors.Errorf("truncated entry: %w", ErrInvalidIndex)
	}

	var e Entry
	ctimeS := binary.BigEndian.Uint32(b[0:4])
	ctimeNs := binary.BigEndian.Uint32(b[4:8])
	mtimeS := binary.BigEndian.Uint32(b[8:12])
	mtimeNs := binary.BigEndian.Uint32(b[12:16])
	e.CTime = time.Unix(int64(ctimeS), int64(ctimeNs)).UTC()
	e.MTime = time.Unix(int64(mtimeS), int64(mtimeNs)).UTC()
	e.Dev = binary.BigEndian.Uint32(b[16:20])
	e.Ino = binary.BigEndian.Uint32(b[20:24])
	e.Mode = coerceMode(binary.BigEndian.Uint32(b[24:28]))
	e.UID = binary.BigEndian.Uint32(b[28:32])
	e.GID = binary.BigEndian.Uint32(b[32:36])
	e.Size = binary.BigEndian.Uint32(b[36:40])

	idStart := 40
	idEnd := idStart + plumbing.OidSize
	oid, err := plumbing.FromBytes(b[idStart:idEnd])
	if err != nil {
		return Entry{}, 0, xerrors.Errorf("invalid object id: %w", ErrInvalidIndex)
	}
	e.ID = oid

	pathLenStart := idEnd
	pathLen := int(binary.BigEndian.Uint16(b[pathLenStart : pathLenStart+2]))
	pathStart := pathLenStart + 2
	pathEnd := pathStart + pathLen
	if pathEnd+1 > len(b) {
		return Entry{}, 0, xerrors.Errorf("truncated path: %w", ErrInvalidIndex)
	}
	e.Path = string(b[pathStart:pathEnd])

	total := pathEnd + 1 // through the NUL terminator, relative to entry start
	for total%8 != 0 {
		total++
	}
	if total > len(b) {
		return Entry{}, 0, xerrors.Errorf("truncated padding: %w", ErrInvalidIndex)
	}

	return e, total, nil
}

// coerceMode maps a raw on-disk mode to the only two the index
// understands, defaulting to a regular file for anything else (the
// engine never stores symlinks or gitlinks in the index).
func coerceMode(raw uint32) Mode {
	if raw&0o111 != 0 {
		return ModeExecutable
	}
	return ModeFile
}
