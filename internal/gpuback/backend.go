// Package gpuback provides wgpu-backed implementations of the
// glyphatlas backing-store interfaces: a 3D texture array for texel
// data and a 1D buffer for geometry data. Both sit on top of a shared
// Backend that owns the underlying instance/adapter/device/queue.
package gpuback

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// ErrNoGPU is returned by Init when no compatible adapter is available.
var ErrNoGPU = errors.New("gpuback: no compatible GPU found")

// ErrNotInitialized is returned by store constructors when given a
// Backend that has not completed Init.
var ErrNotInitialized = errors.New("gpuback: backend not initialized")

// Backend owns the wgpu instance, adapter, device and queue shared by
// every store built on top of it. It is safe for concurrent use; Init
// and Close are idempotent.
type Backend struct {
	mu sync.RWMutex

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	initialized bool
}

// NewBackend creates an uninitialized Backend. Call Init before using
// it to build any store.
func NewBackend() *Backend {
	return &Backend{}
}

// Init creates the wgpu instance, requests a high-performance adapter,
// creates a device and retrieves its queue. Calling Init on an
// already-initialized Backend is a no-op.
func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	}
	b.instance = core.NewInstance(desc)

	adapterID, err := b.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	b.adapter = adapterID

	deviceID, err := createDevice(adapterID, "glyphatlas-device")
	if err != nil {
		return fmt.Errorf("gpuback: device creation failed: %w", err)
	}
	b.device = deviceID

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		return fmt.Errorf("gpuback: queue retrieval failed: %w", err)
	}
	b.queue = queueID

	b.initialized = true
	slog.Default().Info("gpuback: backend initialized")
	return nil
}

// Close releases the device and adapter. Close on an uninitialized or
// already-closed Backend is a no-op.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	if !b.device.IsZero() {
		_ = core.DeviceDrop(b.device)
	}
	if !b.adapter.IsZero() {
		_ = core.AdapterDrop(b.adapter)
	}
	b.initialized = false
}

// IsInitialized reports whether Init has completed successfully and
// Close has not since been called.
func (b *Backend) IsInitialized() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.initialized
}

func (b *Backend) deviceID() core.DeviceID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.device
}

func (b *Backend) queueID() core.QueueID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.queue
}

// createDevice requests a logical device from an adapter with default
// limits and no optional features.
func createDevice(adapterID core.AdapterID, label string) (core.DeviceID, error) {
	desc := &gputypes.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   gputypes.DefaultLimits(),
	}

	deviceID, err := core.RequestDevice(adapterID, desc)
	if err != nil {
		return core.DeviceID{}, fmt.Errorf("failed to create device: %w", err)
	}
	return deviceID, nil
}
