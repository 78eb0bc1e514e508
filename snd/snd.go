// Package snd is the audio-output side of the translator: playing
// synthesized speech and packing raw microphone audio into a
// container the recognition services accept.
package snd

import "github.com/charmbracelet/log"

// Player plays one MP3 utterance at a time. Play blocks until the
// audio has been heard, which keeps consecutive translations from
// talking over each other.
type Player interface {
	Play(mp3 []byte) error
	Close() error
}

// Discard is a player for machines without an audio output. It logs
// what it would have said and moves on.
type Discard struct {
	Log *log.Logger
}

func (d Discard) Play(mp3 []byte) error {
	if d.Log != nil {
		d.Log.Debug("discarding synthesized speech", "bytes", len(mp3))
	}
	return nil
}

func (d Discard) Close() error {
	return nil
}
