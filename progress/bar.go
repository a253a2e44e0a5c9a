package progress

import (
	"io"
	"time"

	"github.com/cheggaaa/pb"
)

// the bar counts to the 1/100ths of a percent
const barScale = 100 * 100

// Theme contains all the characters we need to draw a bar
type Theme struct {
	BarStart string
	BarEnd   string
	Current  string
	Empty    string
	OpSign   string
	StatSign string
}

// Bar is a terminal progress bar driven by fractions in [0, 1]
type Bar struct {
	bar   *pb.ProgressBar
	alpha float64
}

// NewBar returns a bar writing to output. A silent bar keeps
// track of progress without printing anything.
func NewBar(output io.Writer, theme *Theme, silent bool) *Bar {
	bar := pb.New(barScale)
	if !silent && output != nil {
		// an explicit output takes precedence over NotPrint
		bar.Output = output
	}
	bar.AlwaysUpdate = true
	bar.ShowCounters = false
	bar.ShowSpeed = false
	bar.ShowFinalTime = false
	bar.SetRefreshRate(125 * time.Millisecond)
	bar.SetMaxWidth(80)
	bar.NotPrint = silent

	if theme != nil {
		bar.BarStart = theme.BarStart
		bar.BarEnd = theme.BarEnd
		bar.Current = theme.Current
		bar.CurrentN = theme.Current
		bar.Empty = theme.Empty
	}

	return &Bar{bar: bar}
}

func (b *Bar) Start() {
	b.bar.Start()
}

func (b *Bar) SetProgress(alpha float64) {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	b.alpha = alpha
	b.bar.Set(int(alpha * barScale))
}

func (b *Bar) Progress() float64 {
	return b.alpha
}

func (b *Bar) SetLabel(label string) {
	b.bar.Postfix(" " + label)
}

func (b *Bar) Pause() {
	b.bar.AlwaysUpdate = false
}

func (b *Bar) Resume() {
	b.bar.AlwaysUpdate = true
}

func (b *Bar) Finish() {
	b.bar.Postfix("")
	b.bar.Finish()
}
