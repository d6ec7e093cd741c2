package entry

type Mineral string

const (
	Sodium      Mineral = "sodium"
	Potassium   Mineral = "potassium"
	Chloride    Mineral = "chloride"
	Magnesium   Mineral = "magnesium"
	Calcium     Mineral = "calcium"
	Phosphate   Mineral = "phosphate"
	Bicarbonate Mineral = "bicarbonate"
)

// Minerals lists every tracked mineral in display order.
var Minerals = []Mineral{Sodium, Potassium, Chloride, Magnesium, Calcium, Phosphate, Bicarbonate}

func (m Mineral) IsValid() bool {
	switch m {
	case Sodium, Potassium, Chloride, Magnesium, Calcium, Phosphate, Bicarbonate:
		return true
	}
	return false
}

// Electrolytes holds daily mineral intake in milligrams.
type Electrolytes struct {
	Sodium      float64 `json:"sodium"`
	Potassium   float64 `json:"potassium"`
	Chloride    float64 `json:"chloride"`
	Magnesium   float64 `json:"magnesium"`
	Calcium     float64 `json:"calcium"`
	Phosphate   float64 `json:"phosphate"`
	Bicarbonate float64 `json:"bicarbonate"`
}

func (e *Electrolytes) field(m Mineral) *float64 {
	switch m {
	case Sodium:
		return &e.Sodium
	case Potassium:
		return &e.Potassium
	case Chloride:
		return &e.Chloride
	case Magnesium:
		return &e.Magnesium
	case Calcium:
		return &e.Calcium
	case Phosphate:
		return &e.Phosphate
	case Bicarbonate:
		return &e.Bicarbonate
	}
	return nil
}

func (e Electrolytes) Get(m Mineral) float64 {
	if f := e.field(m); f != nil {
		return *f
	}
	return 0
}

// Set is a no-op for unknown minerals.
func (e *Electrolytes) Set(m Mineral, mg float64) {
	if f := e.field(m); f != nil {
		*f = mg
	}
}

func (e Electrolytes) AnyPositive() bool {
	for _, m := range Minerals {
		if e.Get(m) > 0 {
			return true
		}
	}
	return false
}
