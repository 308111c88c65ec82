package game

import "github.com/sirupsen/logrus"

// Cue names a feedback sound trigger. How a cue actually sounds (the
// client synthesizes a short tone) is a presentation concern; the engine
// only fires the trigger points.
type Cue string

const (
	CueSuccess Cue = "success"
	CueLevelUp Cue = "levelup"
)

// CuePlayer receives feedback cues. Implementations must not block.
type CuePlayer interface {
	Play(cue Cue)
}

// LogCuePlayer is the default player: it just records the cue.
type LogCuePlayer struct{}

func (LogCuePlayer) Play(cue Cue) {
	logrus.WithField("cue", string(cue)).Debug("Feedback cue fired")
}
