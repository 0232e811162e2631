package transcode

const (
	blackPixel byte = 0x00
	whitePixel byte = 0xff
)

// Transcode maps a chunk of raw input to pixel channel bytes. Bitwise expands every
// input byte to eight pixels, least significant bit first; every other mode is the
// identity.
func Transcode(chunk []byte, mode ColorMode) []byte {
	return AppendTranscoded(make([]byte, 0, TranscodedLen(len(chunk), mode)), chunk, mode)
}

// AppendTranscoded appends the transcoded form of chunk to dst.
func AppendTranscoded(dst, chunk []byte, mode ColorMode) []byte {
	if mode != Bitwise {
		return append(dst, chunk...)
	}
	for _, b := range chunk {
		for shift := 0; shift < 8; shift++ {
			if b&(1<<shift) == 0 {
				dst = append(dst, blackPixel)
			} else {
				dst = append(dst, whitePixel)
			}
		}
	}
	return dst
}

// TranscodedLen is the output length for n input bytes.
func TranscodedLen(n int, mode ColorMode) int {
	if mode == Bitwise {
		return n * 8
	}
	return n
}
