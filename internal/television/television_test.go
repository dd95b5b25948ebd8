package television

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poweredOn() *Television {
	tv := New()
	tv.TogglePower()
	return tv
}

func TestNew_InitialState(t *testing.T) {
	tv := New()

	assert.False(t, tv.Status())
	assert.False(t, tv.IsMuted())
	assert.Equal(t, MinVolume, tv.Volume())
	assert.Equal(t, MinChannel, tv.Channel())
}

func TestTogglePower_TwiceRestoresState(t *testing.T) {
	tv := poweredOn()
	tv.SetChannel(4)
	tv.VolumeUp()
	tv.ToggleMute()
	before := *tv

	tv.TogglePower()
	assert.False(t, tv.Status())
	tv.TogglePower()

	assert.Equal(t, before, *tv)
}

func TestTogglePower_KeepsMuteVolumeAndChannel(t *testing.T) {
	tv := poweredOn()
	tv.SetChannel(5)
	tv.VolumeUp()
	tv.VolumeUp()
	tv.ToggleMute()

	tv.TogglePower()

	assert.False(t, tv.Status())
	assert.True(t, tv.IsMuted(), "powering off must not clear mute")
	assert.Equal(t, 5, tv.Channel())
	assert.Equal(t, 2, tv.volume)
}

func TestMutators_NoOpWhilePoweredOff(t *testing.T) {
	mutators := map[string]func(*Television){
		"ToggleMute":   (*Television).ToggleMute,
		"ChannelUp":    (*Television).ChannelUp,
		"ChannelDown":  (*Television).ChannelDown,
		"VolumeUp":     (*Television).VolumeUp,
		"VolumeDown":   (*Television).VolumeDown,
		"SetChannel 3": func(tv *Television) { tv.SetChannel(3) },
		"SetChannel 0": func(tv *Television) { tv.SetChannel(0) },
	}

	for name, mutate := range mutators {
		t.Run(name, func(t *testing.T) {
			// Leave some non-initial state behind, then switch off
			tv := poweredOn()
			tv.SetChannel(2)
			tv.VolumeUp()
			tv.ToggleMute()
			tv.TogglePower()
			before := *tv

			mutate(tv)

			assert.Equal(t, before, *tv)
		})
	}
}

func TestChannelUp(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		expected int
	}{
		{name: "from min", start: 0, expected: 1},
		{name: "middle", start: 3, expected: 4},
		{name: "one below max", start: 5, expected: 6},
		{name: "wraps at max", start: 6, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := poweredOn()
			tv.SetChannel(tt.start)

			tv.ChannelUp()

			assert.Equal(t, tt.expected, tv.Channel())
		})
	}
}

func TestChannelDown(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		expected int
	}{
		{name: "wraps at min", start: 0, expected: 6},
		{name: "one above min", start: 1, expected: 0},
		{name: "middle", start: 4, expected: 3},
		{name: "from max", start: 6, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := poweredOn()
			tv.SetChannel(tt.start)

			tv.ChannelDown()

			assert.Equal(t, tt.expected, tv.Channel())
		})
	}
}

func TestVolumeUp_SaturatesAtMax(t *testing.T) {
	tv := poweredOn()

	tv.VolumeUp()
	assert.Equal(t, 1, tv.Volume())
	tv.VolumeUp()
	assert.Equal(t, 2, tv.Volume())
	tv.VolumeUp()
	assert.Equal(t, MaxVolume, tv.Volume())
}

func TestVolumeDown_SaturatesAtMin(t *testing.T) {
	tv := poweredOn()
	tv.VolumeUp()

	tv.VolumeDown()
	assert.Equal(t, 0, tv.Volume())
	tv.VolumeDown()
	assert.Equal(t, MinVolume, tv.Volume())
}

func TestVolumeChange_AlwaysUnmutes(t *testing.T) {
	tests := []struct {
		name     string
		volume   int
		change   func(*Television)
		expected int
	}{
		{name: "up from middle", volume: 1, change: (*Television).VolumeUp, expected: 2},
		{name: "up at max", volume: 2, change: (*Television).VolumeUp, expected: 2},
		{name: "down from middle", volume: 1, change: (*Television).VolumeDown, expected: 0},
		{name: "down at min", volume: 0, change: (*Television).VolumeDown, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := poweredOn()
			for i := 0; i < tt.volume; i++ {
				tv.VolumeUp()
			}
			tv.ToggleMute()
			require.True(t, tv.IsMuted())

			tt.change(tv)

			assert.False(t, tv.IsMuted())
			assert.Equal(t, tt.expected, tv.Volume())
		})
	}
}

func TestVolume_SuppressedWhileMuted(t *testing.T) {
	tv := poweredOn()
	tv.VolumeUp()
	tv.VolumeUp()

	tv.ToggleMute()
	assert.Equal(t, 0, tv.Volume())
	assert.Equal(t, 2, tv.volume, "stored level must survive mute")

	tv.ToggleMute()
	assert.Equal(t, 2, tv.Volume())
}

func TestSetChannel(t *testing.T) {
	tests := []struct {
		name     string
		channel  int
		expected int
	}{
		{name: "min", channel: 0, expected: 0},
		{name: "in range", channel: 3, expected: 3},
		{name: "max", channel: 6, expected: 6},
		{name: "above max ignored", channel: 7, expected: 2},
		{name: "negative ignored", channel: -1, expected: 2},
		{name: "far out of range ignored", channel: 1000, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := poweredOn()
			tv.SetChannel(2)

			tv.SetChannel(tt.channel)

			assert.Equal(t, tt.expected, tv.Channel())
		})
	}
}

func TestScenario_MuteThenVolumeDown(t *testing.T) {
	tv := New()
	tv.TogglePower()
	tv.SetChannel(3)
	tv.VolumeUp()
	tv.VolumeUp()
	tv.ToggleMute()

	assert.Equal(t, 3, tv.Channel())
	assert.Equal(t, 0, tv.Volume())
	assert.True(t, tv.IsMuted())

	tv.VolumeDown()

	assert.False(t, tv.IsMuted())
	assert.Equal(t, 1, tv.Volume())
}

func TestSnapshot(t *testing.T) {
	tv := poweredOn()
	tv.SetChannel(6)
	tv.VolumeUp()
	tv.ToggleMute()

	assert.Equal(t, Snapshot{PowerOn: true, Muted: true, Volume: 0, Channel: 6}, tv.Snapshot())
}

func TestRandomSequences_StayInBounds(t *testing.T) {
	ops := []func(*Television){
		(*Television).TogglePower,
		(*Television).ToggleMute,
		(*Television).ChannelUp,
		(*Television).ChannelDown,
		(*Television).VolumeUp,
		(*Television).VolumeDown,
		func(tv *Television) { tv.SetChannel(-1) },
		func(tv *Television) { tv.SetChannel(4) },
		func(tv *Television) { tv.SetChannel(7) },
	}

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 200; run++ {
		tv := New()
		for step := 0; step < 100; step++ {
			before := *tv
			ops[rng.Intn(len(ops))](tv)

			require.GreaterOrEqual(t, tv.volume, MinVolume)
			require.LessOrEqual(t, tv.volume, MaxVolume)
			require.GreaterOrEqual(t, tv.channel, MinChannel)
			require.LessOrEqual(t, tv.channel, MaxChannel)

			if !before.powerOn && !tv.powerOn {
				require.Equal(t, before, *tv, "state changed while off")
			}
		}
	}
}
