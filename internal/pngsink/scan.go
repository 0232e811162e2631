package pngsink

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

type Header struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType ColorType
	Interlace uint8
}

type Analysis struct {
	Header Header
	// Chunks counts every chunk type seen, Order lists first occurrences.
	Chunks    map[string]int
	Order     []string
	IDATBytes uint64
	Exif      []byte
	TextKeys  []string
	BadCRCs   int
}

const maxMetadataChunk = 1 << 20

// Scan walks the chunk stream of a PNG file up to IEND.
func Scan(r io.Reader) (Analysis, error) {
	analysis := Analysis{Chunks: make(map[string]int)}
	br := bufio.NewReader(r)

	sig := make([]byte, len(Signature))
	if _, err := io.ReadFull(br, sig); err != nil {
		return analysis, err
	}
	if !bytes.Equal(sig, Signature) {
		return analysis, errors.New("invalid PNG signature")
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				return analysis, nil
			}
			return analysis, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return analysis, err
		}
		chunkName := string(chunkType)
		if analysis.Chunks[chunkName] == 0 {
			analysis.Order = append(analysis.Order, chunkName)
		}
		analysis.Chunks[chunkName]++

		crc := crc32.NewIEEE()
		_, _ = crc.Write(chunkType)

		switch chunkName {
		case "IHDR", "eXIf", "tEXt", "zTXt", "iTXt":
			if length > maxMetadataChunk {
				return analysis, errors.New("metadata chunk too large")
			}
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return analysis, err
			}
			_, _ = crc.Write(data)
			if err := applyChunk(&analysis, chunkName, data); err != nil {
				return analysis, err
			}
		default:
			if chunkName == "IDAT" {
				analysis.IDATBytes += uint64(length)
			}
			if _, err := io.CopyN(crc, br, int64(length)); err != nil {
				return analysis, err
			}
		}

		crcBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, crcBuf); err != nil {
			return analysis, err
		}
		if binary.BigEndian.Uint32(crcBuf) != crc.Sum32() {
			analysis.BadCRCs++
		}

		if chunkName == "IEND" {
			return analysis, nil
		}
	}
}

func applyChunk(analysis *Analysis, name string, data []byte) error {
	switch name {
	case "IHDR":
		if len(data) != 13 {
			return errors.New("invalid IHDR length")
		}
		analysis.Header = Header{
			Width:     binary.BigEndian.Uint32(data[0:4]),
			Height:    binary.BigEndian.Uint32(data[4:8]),
			BitDepth:  data[8],
			ColorType: ColorType(data[9]),
			Interlace: data[12],
		}
	case "eXIf":
		analysis.Exif = data
	default:
		if idx := bytes.IndexByte(data, 0); idx > 0 {
			analysis.TextKeys = append(analysis.TextKeys, string(data[:idx]))
		}
	}
	return nil
}
