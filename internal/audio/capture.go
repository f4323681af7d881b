package audio

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/m96-chan/ASRMixingRouter/internal/control"
	"github.com/m96-chan/ASRMixingRouter/internal/core"
	"github.com/m96-chan/ASRMixingRouter/internal/logging"
	"github.com/m96-chan/ASRMixingRouter/internal/ring"
	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

// CaptureNode opens one input device at a fixed (sample_rate, channels,
// buffer_size) and registers a realtime callback that pushes samples into
// the mixer's input ring and, optionally, forks a copy to the ASR tap. The
// callback is wait-free: it never allocates on the ring-push path, and
// never blocks on the tap send.
type CaptureNode struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	id         string
	sampleRate uint32
	channels   uint16
	handle     control.CaptureHandle
	producer   *ring.Buffer
	tap        chan<- core.AudioChunk
}

// NewCaptureNode opens deviceName ("default" or an exact device name) for
// capture at sampleRate/channels and registers the realtime callback.
// producer is the writer half of the input ring the Mixer reads from; tap,
// if non-nil, receives a copy of every callback's samples as an AudioChunk.
func NewCaptureNode(dm *DeviceManager, id, deviceName string, sampleRate uint32, channels uint16, bufferFrames uint32, producer *ring.Buffer, tap chan<- core.AudioChunk) (*CaptureNode, control.CaptureHandle, error) {
	deviceID, err := dm.ResolveInputDevice(deviceName)
	if err != nil {
		return nil, control.CaptureHandle{}, err
	}

	handle := control.NewCaptureHandle(id, true)

	n := &CaptureNode{
		ctx:        dm.Context(),
		id:         id,
		sampleRate: sampleRate,
		channels:   channels,
		handle:     handle,
		producer:   producer,
		tap:        tap,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = channels
	deviceConfig.SampleRate = sampleRate
	if bufferFrames > 0 {
		deviceConfig.PeriodSizeInFrames = bufferFrames
	}
	if deviceID != nil {
		deviceConfig.Capture.DeviceID = deviceID
	}

	onRecvFrames := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		n.onRecvFrames(pInputSamples)
	}

	device, err := malgo.InitDevice(n.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onRecvFrames})
	if err != nil {
		return nil, control.CaptureHandle{}, verr.NewAudioStreamBuild(fmt.Sprintf("input %q: %v", id, err))
	}
	n.device = device

	return n, handle, nil
}

// Start begins the driver callback.
func (n *CaptureNode) Start() error {
	if err := n.device.Start(); err != nil {
		n.handle.SetStatus(control.StatusError)
		return verr.NewAudioStreamError(fmt.Sprintf("input %q: %v", n.id, err))
	}
	return nil
}

// Stop halts the driver callback and releases the device.
func (n *CaptureNode) Stop() {
	if n.device != nil {
		n.device.Stop()
		n.device.Uninit()
		n.device = nil
	}
}

// onRecvFrames is the realtime callback body: (1) if disabled, the buffer
// is discarded entirely — including the tap copy, with no drain-to-zero
// fade; (2) push into the ring (overflow silently dropped); (3) if a tap is
// configured, copy the samples into an AudioChunk and non-blockingly send.
func (n *CaptureNode) onRecvFrames(data []byte) {
	if !n.handle.IsEnabled() {
		return
	}

	pooledSamples := bytesToFloat32(data)
	if len(pooledSamples) > 0 {
		n.producer.PushSlice(pooledSamples)
	}

	if n.tap != nil && len(pooledSamples) > 0 {
		chunkSamples := make([]float32, len(pooledSamples))
		copy(chunkSamples, pooledSamples)
		chunk := core.AudioChunk{
			Samples:    chunkSamples,
			SampleRate: n.sampleRate,
			Channels:   n.channels,
		}
		select {
		case n.tap <- chunk:
		default:
			// Dropped tap receiver, or the cooperative consumer is behind.
			// Ignored: the tap is best-effort and never blocks the
			// realtime callback.
		}
	}

	returnFloat32Buffer(pooledSamples)
}

// float32Pool reduces allocations in the audio callback hot path.
var float32Pool = sync.Pool{
	New: func() interface{} {
		buf := make([]float32, 2048)
		return &buf
	},
}

func bytesToFloat32(data []byte) []float32 {
	numSamples := len(data) / 4
	pBuf := float32Pool.Get().(*[]float32)
	if cap(*pBuf) < numSamples {
		*pBuf = make([]float32, numSamples)
	}
	samples := (*pBuf)[:numSamples]
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}

func returnFloat32Buffer(samples []float32) {
	if samples == nil {
		return
	}
	buf := samples[:cap(samples)]
	float32Pool.Put(&buf)
}
