package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/sanitize"
	"github.com/2beens/maxpot/internal/scoring"
)

func readState(cliCtx *Context, path string) (*entry.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read [%s]: %w", path, err)
	}
	return sanitize.Decode(data, cliCtx.calendar(nil).TodayKey()), nil
}

// SanitizeCmd prints the cleaned-up version of a document file.
type SanitizeCmd struct {
	File string `arg:"" type:"existingfile" help:"Document JSON file."`
}

func (c *SanitizeCmd) Run(cliCtx *Context) error {
	state, err := readState(cliCtx, c.File)
	if err != nil {
		return err
	}
	docJson, err := json.MarshalIndent(state.Document(cliCtx.calendar(nil).Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	_, err = fmt.Fprintln(cliCtx.Out, string(docJson))
	return err
}

// ReportCmd prints the readiness timeline and streak computed from a document file.
type ReportCmd struct {
	File string `arg:"" type:"existingfile" help:"Document JSON file."`
	Days int    `default:"14" help:"Number of most recent days to show."`
}

func (c *ReportCmd) Run(cliCtx *Context) error {
	state, err := readState(cliCtx, c.File)
	if err != nil {
		return err
	}

	past := state.PastEntries()
	today := state.Today()
	timeline := scoring.Timeline(past, today, state.Goals)
	if c.Days > 0 && len(timeline) > c.Days {
		timeline = timeline[len(timeline)-c.Days:]
	}

	tw := tabwriter.NewWriter(cliCtx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tREADINESS\tSLEEP\tHYDRATION\tELECTROLYTES\tWORKOUT")
	for _, p := range timeline {
		readiness := "-"
		if p.Readiness != nil {
			readiness = strconv.Itoa(*p.Readiness)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			p.DateKey, readiness, p.SleepPct, p.HydrationPct, p.ElectrolytePct, p.WorkoutPct)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	progress := scoring.ProgressOf(today, state.Goals)
	_, err = fmt.Fprintf(cliCtx.Out, "\nstreak: %d days\ntoday: water %d%%, sleep %d%%, workouts %d%%\n",
		scoring.ConsistencyStreak(past, today, state.Goals),
		progress.WaterPct, progress.SleepPct, progress.WorkoutPct,
	)
	return err
}
