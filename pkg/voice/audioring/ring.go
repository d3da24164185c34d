package audioring

import (
	"encoding/binary"
	"errors"

	"github.com/smallnest/ringbuffer"
)

// Frame is one chunk of PCM audio received from the capture side.
type Frame struct {
	Data       []byte
	SampleRate int32
	Channels   int16
}

// FrameRing buffers capture frames between "mic pressed" and "mic released".
// Overflow evicts the oldest frames so a stuck capture degrades instead of
// growing without bound.
type FrameRing struct {
	size int
	rb   *ringbuffer.RingBuffer
}

func New(size int) *FrameRing {
	return &FrameRing{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false),
	}
}

func (r *FrameRing) Capacity() int { return r.size }

func (r *FrameRing) Len() int { return r.rb.Length() }

// Enqueue appends a frame, evicting oldest frames when full. Frames are
// stored length-prefixed: size(4) + sampleRate(4) + channels(2) + data.
func (r *FrameRing) Enqueue(f Frame) error {
	needed := 4 + 6 + len(f.Data)
	if needed > r.rb.Capacity() {
		return errors.New("audio frame too large for buffer")
	}

	for r.rb.Free() < needed {
		if !r.dropOldest() {
			r.rb.Reset()
			break
		}
	}

	header := make([]byte, 10)
	binary.LittleEndian.PutUint32(header[0:], uint32(6+len(f.Data)))
	binary.LittleEndian.PutUint32(header[4:], uint32(f.SampleRate))
	binary.LittleEndian.PutUint16(header[8:], uint16(f.Channels))
	if _, err := r.rb.Write(header); err != nil {
		return err
	}
	_, err := r.rb.Write(f.Data)
	return err
}

// Dequeue pops the oldest frame.
func (r *FrameRing) Dequeue() (Frame, bool) {
	if r.rb.IsEmpty() {
		return Frame{}, false
	}

	sizeBytes := make([]byte, 4)
	if n, err := r.rb.Read(sizeBytes); err != nil || n != 4 {
		return Frame{}, false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))
	if size < 6 {
		return Frame{}, false
	}

	payload := make([]byte, size)
	if n, err := r.rb.Read(payload); err != nil || n != size {
		return Frame{}, false
	}

	return Frame{
		SampleRate: int32(binary.LittleEndian.Uint32(payload[0:])),
		Channels:   int16(binary.LittleEndian.Uint16(payload[4:])),
		Data:       payload[6:],
	}, true
}

// Drain empties the ring, oldest first.
func (r *FrameRing) Drain() []Frame {
	var out []Frame
	for {
		f, ok := r.Dequeue()
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

func (r *FrameRing) Reset() { r.rb.Reset() }

func (r *FrameRing) dropOldest() bool {
	if r.rb.IsEmpty() {
		return false
	}
	sizeBytes := make([]byte, 4)
	if n, err := r.rb.Read(sizeBytes); err != nil || n != 4 {
		return false
	}
	size := int(binary.LittleEndian.Uint32(sizeBytes))
	if size > 0 {
		skip := make([]byte, size)
		if n, err := r.rb.Read(skip); err != nil || n != size {
			return false
		}
	}
	return true
}
