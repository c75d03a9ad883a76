package entity

type Trend string

const (
	TrendRising       Trend = "Rising"
	TrendFalling      Trend = "Falling"
	TrendPlateau      Trend = "Plateau"
	TrendInsufficient Trend = "Insufficient"
)

var Trends = []Trend{TrendRising, TrendFalling, TrendPlateau, TrendInsufficient}

type Stability string

const (
	StabilityVeryStable Stability = "VeryStable"
	StabilityStable     Stability = "Stable"
	StabilityModerate   Stability = "Moderate"
	StabilityUnstable   Stability = "Unstable"
)

var Stabilities = []Stability{StabilityVeryStable, StabilityStable, StabilityModerate, StabilityUnstable}

type AlertLevel string

const (
	AlertNormal   AlertLevel = "Normal"
	AlertWatch    AlertLevel = "Watch"
	AlertCaution  AlertLevel = "Caution"
	AlertCritical AlertLevel = "Critical"
)

var AlertLevels = []AlertLevel{AlertNormal, AlertWatch, AlertCaution, AlertCritical}

// IsFlagged reports whether a batch at this level belongs in the critical list.
func (a AlertLevel) IsFlagged() bool {
	return a == AlertCaution || a == AlertCritical
}

// Label parts, joined as "{temp}_{variability}_{range}".
const (
	TempLow      = "Low"
	TempNormal   = "Normal"
	TempHigh     = "High"
	TempOverheat = "Overheat"

	VariabilityStable   = "Stable"
	VariabilityModerate = "Moderate"
	VariabilityUnstable = "Unstable"

	RangeConstant = "Constant"
	RangeVariable = "Variable"
	RangeVolatile = "Volatile"
)
