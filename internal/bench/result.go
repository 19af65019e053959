package bench

import (
	"io"
	"time"

	json "github.com/goccy/go-json"
)

// Strategy names, reported in fixed execution order.
const (
	StrategyReference = "reference"
	StrategyNaive     = "naive"
	StrategyTiled     = "tiled"
)

// Trial is one timed run of one strategy.
type Trial struct {
	Strategy string        `json:"strategy"`
	Trial    int           `json:"trial"`
	Order    int           `json:"order"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	MFLOPS   float64       `json:"mflops"`
}

// Report is the full outcome of one benchmark run.
type Report struct {
	ID      string  `json:"id"`
	Device  string  `json:"device"`
	Program string  `json:"program"`
	Config  Config  `json:"config"`
	Trials  []Trial `json:"trials"`
}

// StrategyTrials returns the trials recorded for one strategy, in order.
func (r *Report) StrategyTrials(strategy string) []Trial {
	var out []Trial
	for _, t := range r.Trials {
		if t.Strategy == strategy {
			out = append(out, t)
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
