package entry

// ElectrolytePacket is a named preset of mineral amounts (e.g. a drink mix).
type ElectrolytePacket struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Electrolytes
}

func FindPacket(packets []ElectrolytePacket, id string) (ElectrolytePacket, bool) {
	for _, p := range packets {
		if p.ID == id {
			return p, true
		}
	}
	return ElectrolytePacket{}, false
}
