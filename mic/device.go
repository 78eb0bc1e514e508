package mic

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/malgo"
)

// DeviceConfig tunes the capture device. Zero values pick defaults
// suited to speech recognition.
type DeviceConfig struct {
	// SampleRate defaults to 16000, the rate speech services expect.
	SampleRate int
	// ListenTimeout is how long Listen waits for speech to start.
	// Defaults to 2s.
	ListenTimeout time.Duration
	// PhraseLimit caps a single utterance. Defaults to 5s.
	PhraseLimit time.Duration
	// Calibration is how long to sample ambient noise at startup.
	// Defaults to 1s.
	Calibration time.Duration

	Log *log.Logger
}

func (c *DeviceConfig) defaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.ListenTimeout <= 0 {
		c.ListenTimeout = 2 * time.Second
	}
	if c.PhraseLimit <= 0 {
		c.PhraseLimit = 5 * time.Second
	}
	if c.Calibration <= 0 {
		c.Calibration = time.Second
	}
	if c.Log == nil {
		c.Log = log.Default()
	}
}

// Device is the default capture device, read through an utterance
// gate. The miniaudio callback copies chunks into a channel; Listen
// drains it and lets the gate decide where utterances begin and end.
type Device struct {
	cfg    DeviceConfig
	mctx   *malgo.AllocatedContext
	dev    *malgo.Device
	chunks chan []byte
	gate   *gate

	closeOnce sync.Once
}

// Open initializes the default capture device, starts it, and spends
// the calibration window measuring ambient noise for the gate
// threshold.
func Open(cfg DeviceConfig) (*Device, error) {
	cfg.defaults()

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	d := &Device{
		cfg:    cfg,
		mctx:   mctx,
		chunks: make(chan []byte, 64),
		gate:   newGate(cfg.SampleRate, cfg.ListenTimeout, cfg.PhraseLimit),
	}

	devCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	devCfg.Capture.Format = malgo.FormatS16
	devCfg.Capture.Channels = 1
	devCfg.SampleRate = uint32(cfg.SampleRate)
	devCfg.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, in []byte, _ uint32) {
			chunk := make([]byte, len(in))
			copy(chunk, in)
			select {
			case d.chunks <- chunk:
			default:
				// Nobody is listening right now; drop rather than
				// stall the audio thread.
			}
		},
	}

	dev, err := malgo.InitDevice(mctx.Context, devCfg, callbacks)
	if err != nil {
		mctx.Uninit()
		return nil, fmt.Errorf("init capture device: %w", err)
	}
	d.dev = dev

	if err := dev.Start(); err != nil {
		dev.Uninit()
		mctx.Uninit()
		return nil, fmt.Errorf("start capture device: %w", err)
	}

	d.calibrate()
	return d, nil
}

func (d *Device) calibrate() {
	var ambient []float64
	deadline := time.After(d.cfg.Calibration)
	for {
		select {
		case chunk := <-d.chunks:
			ambient = append(ambient, rmsInt16(chunk))
		case <-deadline:
			d.gate.calibrate(ambient)
			d.cfg.Log.Debug("microphone calibrated",
				"threshold", fmt.Sprintf("%.0f", d.gate.threshold),
				"chunks", len(ambient))
			return
		}
	}
}

// Listen blocks until the gate emits an utterance, the listen window
// passes in silence, or the context ends.
func (d *Device) Listen(ctx context.Context) (Clip, error) {
	d.gate.reset()
	for {
		select {
		case chunk := <-d.chunks:
			pcm, ev := d.gate.feed(chunk)
			switch ev {
			case gateClip:
				clip := Clip{PCM: pcm, SampleRate: d.cfg.SampleRate, Channels: 1}
				d.cfg.Log.Debug("captured utterance", "duration", clip.Duration())
				return clip, nil
			case gateIdle:
				return Clip{}, ErrTimeout
			}
		case <-ctx.Done():
			return Clip{}, ctx.Err()
		}
	}
}

func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		if d.dev != nil {
			d.dev.Stop()
			d.dev.Uninit()
		}
		if d.mctx != nil {
			d.mctx.Uninit()
		}
	})
	return nil
}
