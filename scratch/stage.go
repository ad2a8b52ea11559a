package scratch

// Stage is the one-per-project background target (§3). It carries no
// sprite-only state (position, visibility, rotation); it exists mainly so
// the engine and compiler can distinguish "stage" from "sprite" contexts
// (e.g. "when this sprite clicked" cannot target the stage as a clone
// source).
type Stage struct {
	Target
	tempo         float64
	videoState    string
	videoTransparency float64
}

// NewStage constructs the project's single Stage target.
func NewStage(id, name string) *Stage {
	s := &Stage{Target: *NewTarget(id, name, true), tempo: 60, videoState: "on", videoTransparency: 50}
	return s
}

// AsTarget exposes the embedded Target so Target.blockSource() can read
// through an ITarget held as an interface value.
func (s *Stage) AsTarget() *Target { return &s.Target }

func (s *Stage) Tempo() float64     { return s.tempo }
func (s *Stage) SetTempo(t float64) { s.tempo = t }

func (s *Stage) VideoState() string     { return s.videoState }
func (s *Stage) SetVideoState(v string) { s.videoState = v }

func (s *Stage) VideoTransparency() float64     { return s.videoTransparency }
func (s *Stage) SetVideoTransparency(v float64) { s.videoTransparency = v }
