package ui

import (
	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"
)

// ChartSet carries every pre-rendered SVG figure the dashboard embeds.
// The department and month figures come in one variant per selector value.
type ChartSet struct {
	DepartmentsAbsolute    string
	DepartmentsLogarithmic string

	MonthsAbsoluteBirths         string
	MonthsAbsoluteProcreations   string
	MonthsNormalizedBirths       string
	MonthsNormalizedProcreations string

	Ages            string
	PartnerAges     string
	NameOrigins     string
	NameNationality string
	NameUsage       string
	Recognition     string
	MultipleBirths  string
}

type DashboardData struct {
	Year        int
	TotalBirths int
	Departments int
	Charts      ChartSet
}

type selectorChoice struct {
	Value string
	Label string
}

// Dashboard builds the single-page dashboard: headline figures, the two
// selector-driven cards, then the static figures.
func Dashboard(d DashboardData) Node {
	return appPage(
		"Dashboard",
		"home",
		statsRow(d),
		departmentsCard(d.Charts),
		monthsCard(d.Charts),
		chartCard("Parents' ages", "Number of births for each mother and father age pair.", d.Charts.Ages),
		chartCard("Mean age of the partner", "Mean partner age by own age, for each parent role.", d.Charts.PartnerAges),
		chartCard("Origin of the child's name", "Which parent's name the child carries.", d.Charts.NameOrigins),
		chartCard("Name choice by parents' nationalities", "Name origin split within each nationality pair (father / mother).", d.Charts.NameNationality),
		chartCard("Name choice by parents' age", "Share of each name-origin choice at each parent age, in percent.", d.Charts.NameUsage),
		chartCard("Early recognition by age", "Share of births recognized before birth or framed by a marriage, per parent age.", d.Charts.Recognition),
		chartCard("Multiple births", "Births by number of children delivered.", d.Charts.MultipleBirths),
	)
}

func statsRow(d DashboardData) Node {
	return Div(
		Class("grid stats"),
		statCard("Reference year", formatCount(d.Year)),
		statCard("Births recorded", formatCount(d.TotalBirths)),
		statCard("Departments mapped", formatCount(d.Departments)),
	)
}

func statCard(label, value string) Node {
	return Div(
		Class("card stat"),
		P(Class("muted"), Text(label)),
		Strong(Text(value)),
	)
}

func departmentsCard(c ChartSet) Node {
	return Div(
		Class("card chart-card"),
		data.Signals(map[string]any{"scale": "absolute"}),
		H2(Text("Births by department")),
		P(Class("muted"), Text("Department totals over the metropolitan map. The logarithmic scale spreads out the low-count departments.")),
		radioGroup("scale", "Scale", []selectorChoice{
			{Value: "absolute", Label: "Absolute"},
			{Value: "logarithmic", Label: "Logarithmic"},
		}),
		Div(Class("figure"), data.Show("$scale === 'absolute'"), Raw(c.DepartmentsAbsolute)),
		Div(Class("figure"), data.Show("$scale === 'logarithmic'"), Raw(c.DepartmentsLogarithmic)),
	)
}

func monthsCard(c ChartSet) Node {
	return Div(
		Class("card chart-card"),
		data.Signals(map[string]any{"value": "absolute", "axis": "births"}),
		H2(Text("Births by month")),
		P(Class("muted"), Text("Monthly totals, optionally normalized to a 30-day month, over the birth month or the estimated procreation month.")),
		radioGroup("value", "Value", []selectorChoice{
			{Value: "absolute", Label: "Absolute"},
			{Value: "normalized", Label: "Normalized"},
		}),
		radioGroup("axis", "Axis", []selectorChoice{
			{Value: "births", Label: "Births"},
			{Value: "procreations", Label: "Procreations"},
		}),
		Div(Class("figure"), data.Show("$value === 'absolute' && $axis === 'births'"), Raw(c.MonthsAbsoluteBirths)),
		Div(Class("figure"), data.Show("$value === 'absolute' && $axis === 'procreations'"), Raw(c.MonthsAbsoluteProcreations)),
		Div(Class("figure"), data.Show("$value === 'normalized' && $axis === 'births'"), Raw(c.MonthsNormalizedBirths)),
		Div(Class("figure"), data.Show("$value === 'normalized' && $axis === 'procreations'"), Raw(c.MonthsNormalizedProcreations)),
	)
}

func chartCard(title, caption, svg string) Node {
	return Div(
		Class("card chart-card"),
		H2(Text(title)),
		P(Class("muted"), Text(caption)),
		Div(Class("figure"), Raw(svg)),
	)
}

// radioGroup renders one labelled radio input per choice, all bound to the
// same signal. The input carrying the signal's current value shows checked.
func radioGroup(signal, legend string, choices []selectorChoice) Node {
	items := make([]Node, 0, len(choices)+1)
	items = append(items, Span(Class("muted"), Text(legend)))
	for i := range choices {
		c := choices[i]
		items = append(items, Label(
			Class("radio"),
			Input(Type("radio"), Name(signal), Value(c.Value), data.Bind(signal)),
			Text(c.Label),
		))
	}
	return Div(Class("radio-group"), Group(items))
}
