package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	maxVoices = 16
	// a strike at this impact speed plays at full volume
	fullScaleVelocity = 10.0
)

// voice is one decaying impact tone.
type voice struct {
	freq  float64
	amp   float64
	phase float64
}

// Processor plays a short plucked tone for every floor impact. Heavier
// bodies sound lower, faster impacts louder.
type Processor struct {
	Stream *portaudio.Stream

	mu     sync.Mutex
	voices []voice
	decay  float64
	volume float64

	FilterState [2]float64

	Active bool
}

func NewProcessor() *Processor {
	return &Processor{
		// amplitude halves every ~80ms
		decay:  math.Pow(0.5, 1/(0.08*SampleRate)),
		volume: 0.25,
	}
}

func (a *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio init: %w", err)
	}

	// output only; duplex streams fail on many Linux setups
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, a.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("starting audio stream: %w", err)
	}

	slog.Debug("audio started", "sample_rate", SampleRate, "buffer", BufferSize)
	a.Stream = stream
	a.Active = true
	return nil
}

func (a *Processor) Stop() {
	if a.Stream != nil {
		a.Stream.Stop()
		a.Stream.Close()
		a.Stream = nil
	}
	if a.Active {
		portaudio.Terminate()
	}
	a.Active = false
}

// Strike queues an impact tone. The oldest voice is dropped when all
// voices are busy.
func (a *Processor) Strike(velocity, mass float64) {
	amp := math.Min(math.Abs(velocity)/fullScaleVelocity, 1)
	if amp == 0 {
		return
	}
	// 880Hz for feather-light bodies down to ~110Hz for the heaviest
	freq := 880 / (1 + math.Log1p(math.Max(mass, 0)))
	freq = math.Max(freq, 110)

	a.mu.Lock()
	if len(a.voices) >= maxVoices {
		a.voices = a.voices[1:]
	}
	a.voices = append(a.voices, voice{freq: freq, amp: amp})
	a.mu.Unlock()
}

// Voices reports how many tones are still sounding.
func (a *Processor) Voices() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.voices)
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// ProcessAudio is the stream callback. It mixes all live voices into both
// channels and retires voices once they are inaudible.
func (a *Processor) ProcessAudio(_ []float32, out [][]float32) {
	dt := 1.0 / float64(SampleRate)

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range out[0] {
		mix := 0.0
		for v := range a.voices {
			vc := &a.voices[v]
			mix += triangle(vc.phase) * vc.amp
			vc.phase += vc.freq * dt
			vc.amp *= a.decay
		}

		a.FilterState[0] = lpf(mix, 2000, dt, a.FilterState[0])
		a.FilterState[1] = lpf(mix, 1800, dt, a.FilterState[1])
		out[0][i] = float32(a.FilterState[0] * a.volume)
		if len(out) > 1 {
			out[1][i] = float32(a.FilterState[1] * a.volume)
		}
	}

	live := a.voices[:0]
	for _, vc := range a.voices {
		if vc.amp > 1e-3 {
			live = append(live, vc)
		}
	}
	a.voices = live
}
