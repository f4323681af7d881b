package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gen2brain/malgo"

	"github.com/m96-chan/ASRMixingRouter/internal/control"
	"github.com/m96-chan/ASRMixingRouter/internal/ring"
	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

// OutputNode opens the output device with the same stream parameters as
// the Mixer's output ring and registers a callback that pops samples from
// the ring's consumer half; any slot not filled by a pop is written as
// silence (underrun never stalls the driver).
type OutputNode struct {
	ctx      *malgo.AllocatedContext
	device   *malgo.Device
	id       string
	handle   control.OutputHandle
	consumer *ring.Buffer
}

// NewOutputNode opens deviceName for playback at sampleRate/channels and
// registers the realtime callback. consumer is the reader half of the
// Mixer's output ring.
func NewOutputNode(dm *DeviceManager, id, deviceName string, sampleRate uint32, channels uint16, bufferFrames uint32, consumer *ring.Buffer) (*OutputNode, control.OutputHandle, error) {
	deviceID, err := dm.ResolveOutputDevice(deviceName)
	if err != nil {
		return nil, control.OutputHandle{}, err
	}

	handle := control.NewOutputHandle()

	n := &OutputNode{
		ctx:      dm.Context(),
		id:       id,
		handle:   handle,
		consumer: consumer,
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = channels
	deviceConfig.SampleRate = sampleRate
	if bufferFrames > 0 {
		deviceConfig.PeriodSizeInFrames = bufferFrames
	}
	if deviceID != nil {
		deviceConfig.Playback.DeviceID = deviceID
	}

	onSendFrames := func(pOutputSample, pInputSamples []byte, frameCount uint32) {
		n.onSendFrames(pOutputSample, int(frameCount))
	}

	device, err := malgo.InitDevice(n.ctx.Context, deviceConfig, malgo.DeviceCallbacks{Data: onSendFrames})
	if err != nil {
		return nil, control.OutputHandle{}, verr.NewAudioStreamBuild(fmt.Sprintf("output %q: %v", id, err))
	}
	n.device = device

	return n, handle, nil
}

// Start begins the driver callback. The device is started immediately; it
// outputs silence until IsPlaying is true and the ring has samples.
func (n *OutputNode) Start() error {
	if err := n.device.Start(); err != nil {
		n.handle.SetStatus(control.StatusError)
		return verr.NewAudioStreamError(fmt.Sprintf("output %q: %v", n.id, err))
	}
	return nil
}

// Stop halts the driver callback and releases the device.
func (n *OutputNode) Stop() {
	if n.device != nil {
		n.device.Stop()
		n.device.Uninit()
		n.device = nil
	}
}

// onSendFrames is the realtime callback body: if not playing, fill the
// buffer with zeros; otherwise pop one sample at a time, writing 0.0 for
// any slot the ring cannot fill (underrun = silence, never stall).
func (n *OutputNode) onSendFrames(out []byte, frameCount int) {
	if !n.handle.IsPlaying() {
		for i := range out {
			out[i] = 0
		}
		return
	}

	for i := 0; i < frameCount; i++ {
		sample, ok := n.consumer.TryPop()
		if !ok {
			sample = 0
		}
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(sample))
	}
}
