package user

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

// Version 2 length-prefixes fields with a uvarint; version 1 used a single
// byte and capped fields at 255 bytes.
const recordFormatVersionCurrent = 2

var errFieldLength = errors.New("field length exceeds record")

// Encode serializes rec into the versioned binary record format.
func Encode(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(1 + 3*binary.MaxVarintLen64 + len(rec.Username) + len(rec.PasswordDigest) + len(rec.Email) + 8)

	buf.WriteByte(recordFormatVersionCurrent)

	writeField(&buf, rec.Username)
	writeField(&buf, rec.PasswordDigest)
	writeField(&buf, rec.Email)

	if err := binary.Write(&buf, binary.BigEndian, rec.CreatedAt.UnixNano()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode. CreatedAt is returned in UTC.
func Decode(data []byte) (Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return Record{}, err
	}
	if version != recordFormatVersionCurrent {
		return Record{}, errors.New("invalid record version")
	}

	var rec Record

	if rec.Username, err = readField(reader); err != nil {
		return Record{}, err
	}
	if rec.PasswordDigest, err = readField(reader); err != nil {
		return Record{}, err
	}
	if rec.Email, err = readField(reader); err != nil {
		return Record{}, err
	}

	var createdAt int64
	if err := binary.Read(reader, binary.BigEndian, &createdAt); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()

	if reader.Len() != 0 {
		return Record{}, errors.New("trailing bytes after record")
	}

	return rec, nil
}

func writeField(buf *bytes.Buffer, value string) {
	var prefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(prefix[:], uint64(len(value)))
	buf.Write(prefix[:n])
	buf.WriteString(value)
}

func readField(reader *bytes.Reader) (string, error) {
	n, err := binary.ReadUvarint(reader)
	if err != nil {
		return "", err
	}
	if n > uint64(reader.Len()) {
		return "", errFieldLength
	}
	raw := make([]byte, n)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return "", err
	}
	return string(raw), nil
}
