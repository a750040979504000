package rules

// RiskLevel is a stable identifier for a risk category, used in metrics labels.
type RiskLevel string

const (
	RiskHighFlood       RiskLevel = "high_flood"
	RiskModerateFlood   RiskLevel = "moderate_flood"
	RiskHighDrought     RiskLevel = "high_drought"
	RiskModerateDrought RiskLevel = "moderate_drought"
	RiskLow             RiskLevel = "low"
)

// RiskLabel is a risk category with its fixed advisory sentence.
type RiskLabel struct {
	Level    RiskLevel
	Icon     string
	Category string
	Advice   string
}

// String renders the label as the user-facing sentence, e.g.
// "✅ Low Risk: Stable climate conditions.".
func (l RiskLabel) String() string {
	return l.Icon + " " + l.Category + ": " + l.Advice
}

// riskRules is the ordered drought/flood table. The last rule always matches.
var riskRules = []Rule[RiskLabel]{
	{
		Name:  "heavy rain",
		Match: func(rain, _ float64) bool { return rain > 60 },
		Label: RiskLabel{RiskHighFlood, "⚠️", "High Flood Risk", "Very heavy rain expected. Ensure drainage & flood safety."},
	},
	{
		Name:  "significant rain",
		Match: func(rain, _ float64) bool { return rain > 30 },
		Label: RiskLabel{RiskModerateFlood, "🌧️", "Moderate Flood Risk", "Significant rain, monitor waterlogging."},
	},
	{
		Name:  "hot and dry",
		Match: func(rain, temp float64) bool { return rain < 5 && temp > 33 },
		Label: RiskLabel{RiskHighDrought, "🔥", "High Drought Risk", "Hot & dry conditions, conserve water."},
	},
	{
		Name:  "limited rain, high temp",
		Match: func(rain, temp float64) bool { return rain >= 5 && rain < 15 && temp > 30 },
		Label: RiskLabel{RiskModerateDrought, "🌡️", "Moderate Drought Risk", "Limited rainfall with high temp."},
	},
	{
		Name:  "stable",
		Match: always,
		Label: RiskLabel{RiskLow, "✅", "Low Risk", "Stable climate conditions."},
	},
}

// Classify maps a reading to its drought/flood risk label. Total over all inputs.
func Classify(rainfallMM, tempC float64) RiskLabel {
	label, _ := FirstMatch(riskRules, rainfallMM, tempC)
	return label
}

// RiskTable returns a copy of the ordered drought/flood table.
func RiskTable() []Rule[RiskLabel] {
	return append([]Rule[RiskLabel](nil), riskRules...)
}
