// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tfevents

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"
)

const (
	headerSize = 12
	footerSize = 4
	maskDelta  = 0xa282ead8

	// MaxRecordLength bounds the length field of a record. Larger values are
	// treated as corruption of the header.
	MaxRecordLength = 1 << 28
)

var (
	crcTable = crc32.MakeTable(crc32.Castagnoli)

	// ErrTruncatedRecord is returned when the stream ends in the middle of a record.
	ErrTruncatedRecord = errors.New("truncated record")
	// ErrCorruptRecord is returned when a record checksum does not match.
	ErrCorruptRecord = errors.New("corrupt record")
)

func maskedCRC(data []byte) uint32 {
	crc := crc32.Checksum(data, crcTable)
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// RecordWriter frames records written to the underlying writer.
type RecordWriter struct {
	w io.Writer
}

// NewRecordWriter returns RecordWriter writing to w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: w}
}

// Write writes a single framed record.
func (rw *RecordWriter) Write(data []byte) error {
	header := make([]byte, headerSize)
	binary.LittleEndian.PutUint64(header[0:8], uint64(len(data)))
	binary.LittleEndian.PutUint32(header[8:12], maskedCRC(header[0:8]))

	footer := make([]byte, footerSize)
	binary.LittleEndian.PutUint32(footer, maskedCRC(data))

	for _, chunk := range [][]byte{header, data, footer} {
		if _, err := rw.w.Write(chunk); err != nil {
			return errors.Wrap(err, "cannot write record")
		}
	}
	return nil
}

// RecordReader reads framed records.
type RecordReader struct {
	r      *bufio.Reader
	offset int64
}

// NewRecordReader returns RecordReader reading from r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: bufio.NewReader(r)}
}

// Offset returns the offset of the next record in the stream.
func (rr *RecordReader) Offset() int64 {
	return rr.offset
}

// Next returns the data of the next record.
// It returns io.EOF when the stream ends on a record boundary and ErrTruncatedRecord
// when it ends inside a record.
func (rr *RecordReader) Next() ([]byte, error) {
	header := make([]byte, headerSize)
	_, err := io.ReadFull(rr.r, header)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, truncatedOr(err, rr.offset)
	}

	if binary.LittleEndian.Uint32(header[8:12]) != maskedCRC(header[0:8]) {
		return nil, errors.Wrapf(ErrCorruptRecord, "length checksum mismatch at offset %d", rr.offset)
	}

	length := binary.LittleEndian.Uint64(header[0:8])
	if length > MaxRecordLength {
		return nil, errors.Wrapf(ErrCorruptRecord, "record length %d exceeds %d at offset %d", length, MaxRecordLength, rr.offset)
	}

	// The buffer grows with the data actually present in the stream.
	buffer := &bytes.Buffer{}
	n, err := io.CopyN(buffer, rr.r, int64(length)+footerSize)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, truncatedOr(err, rr.offset)
	}
	body := buffer.Bytes()[:int(n)]

	data := body[:length]
	if binary.LittleEndian.Uint32(body[length:]) != maskedCRC(data) {
		return nil, errors.Wrapf(ErrCorruptRecord, "data checksum mismatch at offset %d", rr.offset)
	}

	rr.offset += int64(headerSize) + int64(len(body))
	return data, nil
}

func truncatedOr(err error, offset int64) error {
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return errors.Wrapf(ErrTruncatedRecord, "at offset %d", offset)
	}
	return errors.Wrapf(err, "cannot read record at offset %d", offset)
}
