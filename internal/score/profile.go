package score

// Step awards Points when a value is below Below (stealth age in days)
// or at least AtLeast (founding year)
type Step struct {
	Below   int
	AtLeast int
	Points  float64
}

// Profile holds the weights of the raise-likelihood score. Every factor
// contributes min(metric*Mult, Cap) or min(metric/Div, Cap) and only when
// its metric is present and positive.
type Profile struct {
	Name string

	Headcount90dMult  float64
	Headcount90dCap   float64
	Headcount180dMult float64
	Headcount180dCap  float64

	WebTrafficDiv  float64
	WebTrafficCap  float64
	LinkedInDiv    float64
	LinkedInCap    float64
	HighlightsMult float64
	HighlightsCap  float64

	Stealth []Step // First step whose Below exceeds the age wins

	LowFundingHeadcount float64 // Headcount above which low funding counts
	LowFundingCeiling   float64
	LowFundingPoints    float64
	NoFundingHeadcount  float64
	NoFundingPoints     float64

	FoundingYear []Step // First step whose AtLeast the year reaches wins
}

// RaisingNow ranks companies that look like they are raising right now
var RaisingNow = Profile{
	Name:              "raising-now",
	Headcount90dMult:  8,
	Headcount90dCap:   25,
	Headcount180dMult: 4,
	Headcount180dCap:  15,
	WebTrafficDiv:     10,
	WebTrafficCap:     20,
	LinkedInDiv:       5,
	LinkedInCap:       15,
	HighlightsMult:    2,
	HighlightsCap:     10,
	Stealth: []Step{
		{Below: 60, Points: 25},
		{Below: 120, Points: 20},
		{Below: 180, Points: 15},
		{Below: 365, Points: 8},
	},
	LowFundingHeadcount: 3,
	LowFundingCeiling:   2_000_000,
	LowFundingPoints:    12,
	NoFundingHeadcount:  2,
	NoFundingPoints:     15,
	FoundingYear: []Step{
		{AtLeast: 2024, Points: 10},
		{AtLeast: 2023, Points: 5},
	},
}

// AboutToRaise weighs sustained growth and attention, for companies likely
// to raise in the coming months
var AboutToRaise = Profile{
	Name:              "about-to-raise",
	Headcount90dMult:  8,
	Headcount90dCap:   25,
	Headcount180dMult: 5,
	Headcount180dCap:  25,
	WebTrafficDiv:     10,
	WebTrafficCap:     20,
	LinkedInDiv:       5,
	LinkedInCap:       15,
	HighlightsMult:    3,
	HighlightsCap:     15,
	Stealth: []Step{
		{Below: 90, Points: 20},
		{Below: 180, Points: 15},
		{Below: 365, Points: 10},
	},
	LowFundingHeadcount: 3,
	LowFundingCeiling:   2_000_000,
	LowFundingPoints:    10,
	NoFundingHeadcount:  2,
	NoFundingPoints:     15,
	FoundingYear: []Step{
		{AtLeast: 2024, Points: 10},
		{AtLeast: 2023, Points: 5},
	},
}
