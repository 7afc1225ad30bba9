package domain

import (
	"time"
)

// KPISummary holds the four headline statistics of the dashboard.
//
// AvgFeePerJob is the MEDIAN platform fee. The field keeps the historical
// name used on the dashboard card.
type KPISummary struct {
	TotalProjects        int64   `json:"total_projects"`
	TotalClientCountries int     `json:"total_client_countries"`
	AvgFeePerJob         float64 `json:"avg_fee_per_job"`
	MedianFriction       float64 `json:"median_friction"`
}

// MonthlyTotal is one row of the monthly time-series aggregate.
type MonthlyTotal struct {
	Month       time.Time `json:"published_month" csv:"published_month"`
	JobCount    int64     `json:"job_count" csv:"job_count"`
	PlatformFee float64   `json:"simulated_platform_fee" csv:"simulated_platform_fee"`
}

// ChartKind identifies which kind of chart a renderer must draw.
type ChartKind string

const (
	ChartKindLine    ChartKind = "line"
	ChartKindScatter ChartKind = "scatter"
	ChartKindBox     ChartKind = "box"
)

// ChartRequest is a declarative chart description handed to the
// browser-side renderer. Columns is columnar data keyed by field name.
type ChartRequest struct {
	ID             string            `json:"id"`
	Kind           ChartKind         `json:"kind"`
	Title          string            `json:"title"`
	X              string            `json:"x"`
	Y              []string          `json:"y"`
	Color          string            `json:"color,omitempty"`
	LogX           bool              `json:"log_x"`
	LogY           bool              `json:"log_y"`
	Labels         map[string]string `json:"labels,omitempty"`
	CategoryOrder  []string          `json:"category_order,omitempty"`
	Annotations    []Annotation      `json:"annotations,omitempty"`
	ReferenceLines []ReferenceLine   `json:"reference_lines,omitempty"`
	Marker         *MarkerStyle      `json:"marker,omitempty"`
	HoverTemplate  string            `json:"hover_template,omitempty"`
	Template       string            `json:"template"`
	RowCount       int               `json:"row_count"`
	Columns        map[string][]any  `json:"columns"`
}

// Annotation pins a text note to a data coordinate.
type Annotation struct {
	X         any     `json:"x"`
	Y         float64 `json:"y"`
	Text      string  `json:"text"`
	ShowArrow bool    `json:"show_arrow"`
	ArrowHead int     `json:"arrow_head"`
	AX        int     `json:"ax"`
	AY        int     `json:"ay"`
}

// ReferenceLine is a fixed vertical (Axis "x") or horizontal (Axis "y") line.
type ReferenceLine struct {
	Axis           string  `json:"axis"`
	Value          float64 `json:"value"`
	Dash           string  `json:"dash"`
	Color          string  `json:"color"`
	AnnotationText string  `json:"annotation_text,omitempty"`
}

// MarkerStyle controls scatter marker appearance.
type MarkerStyle struct {
	Size    int     `json:"size"`
	Opacity float64 `json:"opacity"`
}

// KPICard is a rendered headline metric.
type KPICard struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// TextBlock is a narrative section of the page.
type TextBlock struct {
	Key     string `json:"key"`
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

// SourceInfo describes the data file a dashboard was built from.
type SourceInfo struct {
	Path        string    `json:"path"`
	Rows        int       `json:"rows"`
	ModTime     time.Time `json:"mod_time"`
	LoadedAt    time.Time `json:"loaded_at"`
	Fingerprint string    `json:"fingerprint"`
}

// Dashboard is the full set of render instructions for one page view.
type Dashboard struct {
	Title      string         `json:"title"`
	KPIs       []KPICard      `json:"kpis"`
	Summary    KPISummary     `json:"summary"`
	TimeSeries ChartRequest   `json:"time_series"`
	Scatter    ChartRequest   `json:"scatter"`
	Box        ChartRequest   `json:"box"`
	Text       []TextBlock    `json:"text"`
	Source     SourceInfo     `json:"source"`
	Monthly    []MonthlyTotal `json:"-"`
}
