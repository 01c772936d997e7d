package wal

import (
	"encoding/binary"
	"io"
	"os"
)

// maxSeqInSegment scans a segment's headers and returns the highest
// sequence number in it. Only truncation uses it.
func maxSeqInSegment(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var maxSeq uint64
	header := make([]byte, headerSize)
	for {
		if _, err := io.ReadFull(f, header); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return maxSeq, nil
			}
			return maxSeq, err
		}

		maxSeq = max(maxSeq, binary.BigEndian.Uint64(header[1:9]))
		payloadLen := binary.BigEndian.Uint32(header[17:21])

		// Skip payload + CRC
		if _, err := f.Seek(int64(payloadLen)+crcSize, io.SeekCurrent); err != nil {
			return maxSeq, err
		}
	}
}
