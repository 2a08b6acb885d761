// Package bundle materializes category-scoped query results into binary
// snapshot artifacts for cache-friendly delivery.
package bundle

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"quizbank/internal/store"
)

// Wire layout: magic, format version, length-prefixed JSON header, then one
// length-prefixed (id, document) pair per result. All integers big-endian
// uint32. Documents are JSON with map keys sorted by the encoder, so an
// unchanged result set always produces identical bytes.
var magic = [4]byte{'Q', 'B', 'N', 'D'}

const formatVersion = 1

// Header makes the artifact self-describing: a client can reconstruct the
// exact query result without touching the store.
type Header struct {
	QueryName string `json:"queryName"`
	Category  string `json:"category"`
	Count     int    `json:"count"`
}

// Encode serializes a complete result set. It never emits a partial artifact:
// any failure discards the buffer entirely.
func Encode(queryName, category string, snaps []store.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(formatVersion)

	header, err := json.Marshal(Header{QueryName: queryName, Category: category, Count: len(snaps)})
	if err != nil {
		return nil, fmt.Errorf("encode bundle header: %w", err)
	}
	writeChunk(&buf, header)

	for _, snap := range snaps {
		doc, err := json.Marshal(snap.Data)
		if err != nil {
			return nil, fmt.Errorf("encode bundle document %s: %w", snap.ID, err)
		}
		writeChunk(&buf, []byte(snap.ID))
		writeChunk(&buf, doc)
	}
	return buf.Bytes(), nil
}

func writeChunk(buf *bytes.Buffer, chunk []byte) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(chunk)))
	buf.Write(size[:])
	buf.Write(chunk)
}

// Decode parses an artifact back into its header and result set.
func Decode(data []byte) (Header, []store.Snapshot, error) {
	r := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil || gotMagic != magic {
		return Header{}, nil, fmt.Errorf("not a bundle artifact")
	}
	version, err := r.ReadByte()
	if err != nil || version != formatVersion {
		return Header{}, nil, fmt.Errorf("unsupported bundle version")
	}

	rawHeader, err := readChunk(r)
	if err != nil {
		return Header{}, nil, fmt.Errorf("read bundle header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(rawHeader, &header); err != nil {
		return Header{}, nil, fmt.Errorf("decode bundle header: %w", err)
	}

	// Each snapshot occupies at least two length prefixes, so a count the
	// remaining bytes cannot hold is corruption. The bound also keeps a
	// forged header from driving a huge preallocation.
	if header.Count < 0 || header.Count > r.Len()/8 {
		return Header{}, nil, fmt.Errorf("bundle header count %d exceeds payload", header.Count)
	}

	snaps := make([]store.Snapshot, 0, header.Count)
	for i := 0; i < header.Count; i++ {
		id, err := readChunk(r)
		if err != nil {
			return Header{}, nil, fmt.Errorf("read bundle document id: %w", err)
		}
		rawDoc, err := readChunk(r)
		if err != nil {
			return Header{}, nil, fmt.Errorf("read bundle document: %w", err)
		}
		var doc store.Document
		if err := json.Unmarshal(rawDoc, &doc); err != nil {
			return Header{}, nil, fmt.Errorf("decode bundle document %s: %w", id, err)
		}
		snaps = append(snaps, store.Snapshot{ID: string(id), Data: doc})
	}
	return header, snaps, nil
}

func readChunk(r *bytes.Reader) ([]byte, error) {
	var size [4]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return nil, err
	}
	// Check the declared size against the bytes actually present before
	// allocating, or a corrupt prefix demands gigabytes.
	n := binary.BigEndian.Uint32(size[:])
	if int64(n) > int64(r.Len()) {
		return nil, fmt.Errorf("chunk length %d exceeds remaining %d bytes", n, r.Len())
	}
	chunk := make([]byte, n)
	if _, err := io.ReadFull(r, chunk); err != nil {
		return nil, err
	}
	return chunk, nil
}
