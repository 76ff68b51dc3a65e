// Package signal provides the time model and buffer helpers shared by
// the signal graph and the playback backends. It allows to:
// 	- measure elapsed time as an exact number of samples
//	- convert between sample counts and durations
//	- split interleaved buffers into channels
//	- encode samples for byte-oriented outputs
package signal

import (
	"encoding/binary"
	"math"
	"time"
)

// Float32 is a non-interleaved float32 signal.
type Float32 [][]float32

// DurationOf returns time duration of passed samples for this sample rate.
func DurationOf(sampleRate int, samples int64) time.Duration {
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// SamplesOf returns the number of whole samples that fit into the
// duration at this sample rate.
func SamplesOf(sampleRate int, d time.Duration) int64 {
	return int64(math.Floor(d.Seconds() * float64(sampleRate)))
}

// Deinterleave splits interleaved samples into channels. Trailing
// samples of an incomplete frame are padded with zeros.
func Deinterleave(data []float32, numChannels int) Float32 {
	if data == nil || numChannels == 0 {
		return nil
	}
	floats := make([][]float32, numChannels)
	bufSize := int(math.Ceil(float64(len(data)) / float64(numChannels)))
	for i := range floats {
		floats[i] = make([]float32, bufSize)
		pos := 0
		for j := i; j < len(data); j = j + numChannels {
			floats[i][pos] = data[j]
			pos++
		}
	}
	return floats
}

// NumChannels returns number of channels in this sample slice
func (floats Float32) NumChannels() int {
	return len(floats)
}

// Size returns number of samples in single block in this sample slice
func (floats Float32) Size() int {
	if floats.NumChannels() == 0 {
		return 0
	}
	return len(floats[0])
}

// EncodeFloat32LE writes samples to dst as little-endian IEEE 754 values
// and returns number of written bytes. Only samples which fit into dst
// are written.
func EncodeFloat32LE(dst []byte, samples []float32) int {
	n := len(dst) / 4
	if n > len(samples) {
		n = len(samples)
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(samples[i]))
	}
	return n * 4
}
