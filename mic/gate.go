package mic

import (
	"encoding/binary"
	"math"
	"time"
)

// Gate timing expressed as audio time, converted to sample counts at
// construction so the gate itself never looks at a clock.
const (
	defaultThreshold = 300 // rms over int16 samples
	prerollWindow    = 200 * time.Millisecond
	silenceWindow    = 500 * time.Millisecond
	minThreshold     = 150
)

type gateEvent int

const (
	// gateOpen: keep feeding, nothing decided yet.
	gateOpen gateEvent = iota
	// gateClip: an utterance ended, the clip is ready.
	gateClip
	// gateIdle: the listen window passed without speech.
	gateIdle
)

// gate turns a continuous PCM stream into discrete utterances. It
// waits up to timeout for the signal to cross the energy threshold,
// then collects until silenceWindow of quiet or the phrase limit,
// keeping a short preroll so the first syllable is not clipped.
type gate struct {
	threshold float64
	preroll   int // samples
	silence   int // samples
	timeout   int // samples
	limit     int // samples

	speaking bool
	waited   int
	quiet    int
	clip     []byte
	lead     []byte
}

func newGate(rate int, timeout, limit time.Duration) *gate {
	return &gate{
		threshold: defaultThreshold,
		preroll:   samplesIn(rate, prerollWindow),
		silence:   samplesIn(rate, silenceWindow),
		timeout:   samplesIn(rate, timeout),
		limit:     samplesIn(rate, limit),
	}
}

func samplesIn(rate int, d time.Duration) int {
	return int(int64(rate) * int64(d) / int64(time.Second))
}

// calibrate sets the threshold from ambient energy readings, with a
// floor so a dead-quiet room does not turn breathing into speech.
func (g *gate) calibrate(ambient []float64) {
	if len(ambient) == 0 {
		return
	}
	var sum float64
	for _, v := range ambient {
		sum += v
	}
	t := sum / float64(len(ambient)) * 1.8
	if t < minThreshold {
		t = minThreshold
	}
	g.threshold = t
}

// feed consumes one chunk of 16-bit mono PCM. When it returns
// gateClip the returned bytes are the finished utterance and the gate
// is reset; gateIdle means the listen window elapsed in silence.
func (g *gate) feed(chunk []byte) ([]byte, gateEvent) {
	samples := len(chunk) / 2
	loud := rmsInt16(chunk) >= g.threshold

	if !g.speaking {
		g.lead = append(g.lead, chunk...)
		if over := len(g.lead)/2 - g.preroll; over > 0 {
			g.lead = g.lead[over*2:]
		}
		if loud {
			g.speaking = true
			g.clip = append(g.clip, g.lead...)
			g.lead = nil
			g.quiet = 0
			return nil, gateOpen
		}
		g.waited += samples
		if g.waited >= g.timeout {
			g.reset()
			return nil, gateIdle
		}
		return nil, gateOpen
	}

	g.clip = append(g.clip, chunk...)
	if loud {
		g.quiet = 0
	} else {
		g.quiet += samples
	}
	if g.quiet >= g.silence || len(g.clip)/2 >= g.limit {
		clip := g.clip
		g.reset()
		return clip, gateClip
	}
	return nil, gateOpen
}

func (g *gate) reset() {
	g.speaking = false
	g.waited = 0
	g.quiet = 0
	g.clip = nil
	g.lead = nil
}

// rmsInt16 is the root mean square of little-endian int16 samples.
func rmsInt16(chunk []byte) float64 {
	n := len(chunk) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(chunk[i*2:]))
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(n))
}
