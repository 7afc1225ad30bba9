package charts

import "marketpulse/pkg/contracts/domain"

// Page copy.
const (
	PageTitle = "Freelance Marketplace Dynamics: A Search Model Analysis"

	introText = "Analysis inspired by economic search theory (DMP model) to quantify market Friction and guide platform strategy."

	overviewHeading = "1. Overview & Key Metrics"

	dynamicsHeading = "2. Market Dynamics: Demand Flow vs. Revenue (Volatility)"
	dynamicsText    = "Revenue is highly dependent on Demand Flow, leading to extreme volatility."

	efficiencyHeading = "3. Matching Efficiency: Finding the Low-Friction Equilibrium"
	efficiencyText    = "The key to matching speed is aligning client budget with the market’s expected rate."

	insightText = "The V-shape shows friction is lowest near the $500 equilibrium. " +
		"The Premium Budget segment exhibits the highest friction volatility (the largest box range), " +
		"requiring specialized matching resources."

	churnNote = "Sharp post-peak drop in both metrics indicates high friction is causing churn."
)

// Text block keys.
const (
	TextIntro      = "intro"
	TextOverview   = "overview"
	TextDynamics   = "dynamics"
	TextEfficiency = "efficiency"
	TextInsight    = "insight"
)

// Narrative returns the page text in display order.
func Narrative() []domain.TextBlock {
	return []domain.TextBlock{
		{Key: TextIntro, Body: introText},
		{Key: TextOverview, Heading: overviewHeading},
		{Key: TextDynamics, Heading: dynamicsHeading, Body: dynamicsText},
		{Key: TextEfficiency, Heading: efficiencyHeading, Body: efficiencyText},
		{Key: TextInsight, Heading: "Insight", Body: insightText},
	}
}
