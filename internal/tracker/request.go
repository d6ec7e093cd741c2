package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/2beens/maxpot/internal/dailylog"
	"github.com/2beens/maxpot/internal/entry"
	"github.com/2beens/maxpot/internal/timeutil"
)

const maxBodyBytes = 1 << 20

// inputValue is raw user input. Clients may send numbers or strings; both end
// up as the string the log mutators parse.
type inputValue string

func (v *inputValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = inputValue(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*v = ""
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("invalid input value [%s]", data)
		}
		*v = inputValue(data)
	}
	return nil
}

type logRequest struct {
	Date  string     `json:"date"`
	Mode  string     `json:"mode"`
	Value inputValue `json:"value"`
	Unit  string     `json:"unit"`
}

type electrolyteRequest struct {
	logRequest
	Mineral string `json:"mineral"`
}

type batchRequest struct {
	Date     string                `json:"date"`
	Amounts  map[string]inputValue `json:"amounts"`
	PacketID string                `json:"packetId"`
}

type setRequest struct {
	Effort string     `json:"effort"`
	RIR    inputValue `json:"rir"`
	Reps   inputValue `json:"reps"`
}

type workoutRequest struct {
	Date string `json:"date"`
	Type string `json:"type"`
	// strength
	NumSets inputValue   `json:"numSets"`
	Sets    []setRequest `json:"sets"`
	// running_steady
	Minutes   inputValue `json:"minutes"`
	Perceived inputValue `json:"perceived"`
	// running_sprint
	DistanceM    inputValue `json:"distanceM"`
	PerceivedPct inputValue `json:"perceivedPct"`
	// anything else
	DurationMin inputValue `json:"durationMin"`
	SessionRPE  inputValue `json:"sessionRpe"`
}

type packetRequest struct {
	Name    string                `json:"name"`
	Amounts map[string]inputValue `json:"amounts"`
}

type reminderRequest struct {
	Enabled *bool   `json:"enabled"`
	Time    *string `json:"time"`
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return fmt.Errorf("empty body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

// validDate accepts an empty date (meaning today) or a well formed day key.
func validDate(date string) error {
	if date == "" || timeutil.IsDayKey(date) {
		return nil
	}
	return fmt.Errorf("invalid date [%s], expected YYYY-MM-DD", date)
}

func mineralAmounts(raw map[string]inputValue) map[entry.Mineral]string {
	amounts := make(map[entry.Mineral]string, len(raw))
	for k, v := range raw {
		amounts[entry.Mineral(k)] = string(v)
	}
	return amounts
}

func (req workoutRequest) session(id string) entry.WorkoutSession {
	switch entry.SessionType(req.Type) {
	case entry.SessionStrength:
		sets := make([]dailylog.SetInput, 0, len(req.Sets))
		for _, set := range req.Sets {
			sets = append(sets, dailylog.SetInput{
				Effort: set.Effort,
				RIR:    string(set.RIR),
				Reps:   string(set.Reps),
			})
		}
		return dailylog.NewStrengthSession(id, string(req.NumSets), sets)
	case entry.SessionRunningSteady:
		return dailylog.NewSteadyRunSession(id, string(req.Minutes), string(req.Perceived))
	case entry.SessionRunningSprint:
		return dailylog.NewSprintSession(id, string(req.DistanceM), string(req.PerceivedPct))
	default:
		return dailylog.NewOtherSession(id, req.Type, string(req.DurationMin), string(req.SessionRPE))
	}
}
