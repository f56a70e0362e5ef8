package swapchain

import (
	"time"

	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// CreateFlags indicate specific device context and ring behaviors to activate or deactivate
type CreateFlags int32

var createFlagsMapping = common.NewFlagStringMapping[CreateFlags]()

func (f CreateFlags) Register(str string) {
	createFlagsMapping.Register(f, str)
}
func (f CreateFlags) String() string {
	return createFlagsMapping.FlagsToString(f)
}

const (
	// CreateSkipDeviceUUIDCheck accepts a compute device whose UUID differs from the graphics device's.
	// The shared device index is then the only thing tying the two domains to one GPU.
	CreateSkipDeviceUUIDCheck CreateFlags = 1 << iota
	// CreateDisableDedicatedAllocation allocates frame memory without a dedicated-allocation request.
	// Some drivers refuse to import non-dedicated memory, so this is mostly useful for debugging.
	CreateDisableDedicatedAllocation
)

func init() {
	CreateSkipDeviceUUIDCheck.Register("CreateSkipDeviceUUIDCheck")
	CreateDisableDedicatedAllocation.Register("CreateDisableDedicatedAllocation")
}

// FrameState is the position of a frame in the producer/consumer hand-off
type FrameState int

const (
	FrameFree FrameState = iota
	FrameAcquiredByProducer
	FrameSignaledByProducer
	FrameAcquiredByConsumer
	FrameSignaledByConsumer

	// FrameUnknown is reported for an index outside the ring
	FrameUnknown FrameState = -1
)

func (s FrameState) String() string {
	switch s {
	case FrameFree:
		return "Free"
	case FrameAcquiredByProducer:
		return "AcquiredByProducer"
	case FrameSignaledByProducer:
		return "SignaledByProducer"
	case FrameAcquiredByConsumer:
		return "AcquiredByConsumer"
	case FrameSignaledByConsumer:
		return "SignaledByConsumer"
	}
	return "Unknown"
}

// TransitionFunc observes frame state transitions. It is called with the ring's lock held and must
// not call back into the ring.
type TransitionFunc func(index int, from, to FrameState)

// CreateOptions contains optional settings when creating a device context or ring
type CreateOptions struct {
	// Flags indicates specific behaviors to activate or deactivate
	Flags CreateFlags

	// AcquireTimeout bounds how long AcquireImage and AcquireFrame block when the context passed
	// to them carries no deadline. Zero means wait until the ring is deactivated.
	AcquireTimeout time.Duration

	// RequiredMemoryFlags are the property flags frame memory must have. It defaults to
	// core1_0.MemoryPropertyDeviceLocal.
	RequiredMemoryFlags core1_0.MemoryPropertyFlags

	// OnTransition, if set, is called for every frame state transition
	OnTransition TransitionFunc
}

func (o CreateOptions) requiredMemoryFlags() core1_0.MemoryPropertyFlags {
	if o.RequiredMemoryFlags == 0 {
		return core1_0.MemoryPropertyDeviceLocal
	}
	return o.RequiredMemoryFlags
}
