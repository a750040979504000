package rules

// AdvisoryKind is a stable identifier for a crop recommendation, used in metrics labels.
type AdvisoryKind string

const (
	AdvisoryRiceMaizeGroundnut AdvisoryKind = "rice_maize_groundnut"
	AdvisoryDroughtResistant   AdvisoryKind = "drought_resistant"
	AdvisoryPaddySugarcane     AdvisoryKind = "paddy_sugarcane"
	AdvisoryVegetablesPulses   AdvisoryKind = "vegetables_pulses"
	AdvisoryMixed              AdvisoryKind = "mixed"
)

// AdvisoryLabel is a crop recommendation.
type AdvisoryLabel struct {
	Kind AdvisoryKind
	Icon string
	Text string
}

// String renders the recommendation as shown to users.
func (l AdvisoryLabel) String() string {
	return l.Icon + " " + l.Text
}

// advisoryRules is the ordered crop advisory table. Rules 1 and 3 overlap for
// 50 < rain < 80 with 22 < temp < 30; rule 1 wins there. The last rule always matches.
var advisoryRules = []Rule[AdvisoryLabel]{
	{
		Name:  "warm and wet",
		Match: func(rain, temp float64) bool { return rain > 20 && rain < 80 && temp > 22 && temp < 30 },
		Label: AdvisoryLabel{AdvisoryRiceMaizeGroundnut, "🌾", "Good conditions for Rice, Maize, or Groundnut."},
	},
	{
		Name:  "hot and dry",
		Match: func(rain, temp float64) bool { return temp > 32 && rain < 10 },
		Label: AdvisoryLabel{AdvisoryDroughtResistant, "🌱", "Recommend drought-resistant crops (Millets, Pulses)."},
	},
	{
		Name:  "excess rain",
		Match: func(rain, _ float64) bool { return rain > 50 },
		Label: AdvisoryLabel{AdvisoryPaddySugarcane, "🌿", "Excess rainfall → focus on Paddy or Sugarcane. Ensure drainage."},
	},
	{
		Name:  "moderate rain, warm",
		Match: func(rain, temp float64) bool { return rain >= 15 && rain <= 30 && temp >= 25 && temp <= 32 },
		Label: AdvisoryLabel{AdvisoryVegetablesPulses, "🥬", "Ideal for Vegetables, Short-duration pulses."},
	},
	{
		Name:  "mixed",
		Match: always,
		Label: AdvisoryLabel{AdvisoryMixed, "🌍", "Mixed conditions → use balanced cropping strategy, consult local experts."},
	},
}

// Advise maps a reading to a crop recommendation. Total over all inputs.
func Advise(rainfallMM, tempC float64) AdvisoryLabel {
	label, _ := FirstMatch(advisoryRules, rainfallMM, tempC)
	return label
}

// AdvisoryTable returns a copy of the ordered crop advisory table.
func AdvisoryTable() []Rule[AdvisoryLabel] {
	return append([]Rule[AdvisoryLabel](nil), advisoryRules...)
}
