package input

import (
	"encoding/binary"
	"errors"

	"github.com/Sweta1G/chat-widget/pkg/voice/audioring"
)

const (
	wavHeaderSize   = 44
	fallbackRate    = 16000
	numChannels     = 1 // capture is mono
	bitsPerSample   = 16
	pcmFormatCode   = 1
	fmtChunkPayload = 16
)

// BuildWAV wraps raw PCM capture frames in a WAV container the recognition
// endpoint accepts. The first frame's sample rate drives the header.
func BuildWAV(frames []audioring.Frame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, errors.New("no audio frames")
	}

	sampleRate := frames[0].SampleRate
	if sampleRate == 0 {
		sampleRate = fallbackRate
	}

	totalData := 0
	for _, f := range frames {
		totalData += len(f.Data)
	}

	byteRate := int(sampleRate) * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	out := make([]byte, 0, wavHeaderSize+totalData)
	header := make([]byte, wavHeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(wavHeaderSize+totalData-8))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtChunkPayload)
	binary.LittleEndian.PutUint16(header[20:22], pcmFormatCode)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(totalData))

	out = append(out, header...)
	for _, f := range frames {
		out = append(out, f.Data...)
	}
	return out, nil
}
