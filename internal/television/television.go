// Package television models the control logic of a TV set driven by a remote.
//
// Every mutator is guarded: while the set is off, only TogglePower has any
// effect. Out-of-range arguments are ignored. No method returns an error.
// A Television is not safe for concurrent use; see package remote for a
// serialized wrapper.
package television

const (
	MinVolume  = 0
	MaxVolume  = 2
	MinChannel = 0
	MaxChannel = 6
)

// Television holds power, mute, volume and channel state
type Television struct {
	powerOn bool
	muted   bool
	volume  int
	channel int
}

// Snapshot is the accessor view of a Television at one point in time
type Snapshot struct {
	PowerOn bool `json:"power_on"`
	Muted   bool `json:"muted"`
	Volume  int  `json:"volume"`
	Channel int  `json:"channel"`
}

// New returns a Television that is off, unmuted, at minimum volume and channel
func New() *Television {
	return &Television{
		volume:  MinVolume,
		channel: MinChannel,
	}
}

// TogglePower switches the set on or off. Volume, channel and mute survive
// a power cycle.
func (t *Television) TogglePower() {
	t.powerOn = !t.powerOn
}

// ToggleMute flips mute while the set is on
func (t *Television) ToggleMute() {
	if !t.powerOn {
		return
	}
	t.muted = !t.muted
}

// ChannelUp advances one channel, wrapping from MaxChannel to MinChannel
func (t *Television) ChannelUp() {
	if !t.powerOn {
		return
	}
	if t.channel < MaxChannel {
		t.channel++
	} else {
		t.channel = MinChannel
	}
}

// ChannelDown goes back one channel, wrapping from MinChannel to MaxChannel
func (t *Television) ChannelDown() {
	if !t.powerOn {
		return
	}
	if t.channel > MinChannel {
		t.channel--
	} else {
		t.channel = MaxChannel
	}
}

// VolumeUp unmutes and raises the volume by one step up to MaxVolume.
// Unmuting happens even when the volume is already at its maximum.
func (t *Television) VolumeUp() {
	if !t.powerOn {
		return
	}
	t.muted = false
	if t.volume < MaxVolume {
		t.volume++
	}
}

// VolumeDown unmutes and lowers the volume by one step down to MinVolume.
func (t *Television) VolumeDown() {
	if !t.powerOn {
		return
	}
	t.muted = false
	if t.volume > MinVolume {
		t.volume--
	}
}

// SetChannel jumps straight to channel n. Values outside
// [MinChannel, MaxChannel] are ignored.
func (t *Television) SetChannel(n int) {
	if !t.powerOn || n < MinChannel || n > MaxChannel {
		return
	}
	t.channel = n
}

// Status reports whether the set is on
func (t *Television) Status() bool {
	return t.powerOn
}

// Channel returns the current channel
func (t *Television) Channel() int {
	return t.channel
}

// Volume returns the audible volume: 0 while muted, the stored level otherwise
func (t *Television) Volume() int {
	if t.muted {
		return 0
	}
	return t.volume
}

// IsMuted reports whether the set is muted
func (t *Television) IsMuted() bool {
	return t.muted
}

// Snapshot collects the four accessors into one value
func (t *Television) Snapshot() Snapshot {
	return Snapshot{
		PowerOn: t.Status(),
		Muted:   t.IsMuted(),
		Volume:  t.Volume(),
		Channel: t.Channel(),
	}
}
