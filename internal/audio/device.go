// Package audio implements the realtime audio plane: CaptureNode and
// OutputNode driver callbacks, and device name-to-handle lookup.
package audio

import (
	"github.com/gen2brain/malgo"

	"github.com/m96-chan/ASRMixingRouter/internal/logging"
	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

var deviceLog = logging.For("device")

// DeviceManager resolves configured device names ("default" or an exact
// device name) to concrete malgo device handles. This is the in-scope
// "name-to-handle lookup" carved out of §1's device-enumeration non-goal.
type DeviceManager struct {
	ctx *malgo.AllocatedContext
}

// NewDeviceManager initializes the shared malgo audio context.
func NewDeviceManager() (*DeviceManager, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, verr.NewAudioStreamBuild(err.Error())
	}
	return &DeviceManager{ctx: ctx}, nil
}

// Context exposes the underlying malgo context for device construction.
func (dm *DeviceManager) Context() *malgo.AllocatedContext { return dm.ctx }

// Close releases the audio context.
func (dm *DeviceManager) Close() {
	if dm.ctx != nil {
		_ = dm.ctx.Uninit()
		dm.ctx.Free()
		dm.ctx = nil
	}
}

// ListInputDevices enumerates capture devices.
func (dm *DeviceManager) ListInputDevices() ([]malgo.DeviceInfo, error) {
	infos, err := dm.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, verr.NewAudioDeviceEnumeration(err.Error())
	}
	return infos, nil
}

// ListOutputDevices enumerates playback devices.
func (dm *DeviceManager) ListOutputDevices() ([]malgo.DeviceInfo, error) {
	infos, err := dm.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, verr.NewAudioDeviceEnumeration(err.Error())
	}
	return infos, nil
}

// ResolveInputDevice resolves name to a device ID, or nil if name is
// "default" (meaning: let the driver pick its default device).
func (dm *DeviceManager) ResolveInputDevice(name string) (*malgo.DeviceID, error) {
	return dm.resolve(name, malgo.Capture)
}

// ResolveOutputDevice resolves name to a device ID, or nil for "default".
func (dm *DeviceManager) ResolveOutputDevice(name string) (*malgo.DeviceID, error) {
	return dm.resolve(name, malgo.Playback)
}

func (dm *DeviceManager) resolve(name string, deviceType malgo.DeviceType) (*malgo.DeviceID, error) {
	if name == "" || name == "default" {
		return nil, nil
	}
	infos, err := dm.ctx.Devices(deviceType)
	if err != nil {
		return nil, verr.NewAudioDeviceEnumeration(err.Error())
	}
	for _, info := range infos {
		if info.Name() == name {
			id := info.ID
			return &id, nil
		}
	}
	deviceLog.Warn("device not found", "name", name, "type", deviceType)
	return nil, verr.NewAudioDeviceNotFound(name)
}
