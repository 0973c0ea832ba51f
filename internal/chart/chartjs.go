package chart

import (
	"encoding/json"
)

// ChartJSConfig is the subset of a Chart.js line chart configuration the
// detail page uses. It marshals directly into `new Chart(canvas, cfg)`.
type ChartJSConfig struct {
	Type    string         `json:"type"`
	Data    chartJSData    `json:"data"`
	Options chartJSOptions `json:"options"`
}

type chartJSData struct {
	Labels   []string         `json:"labels"`
	Datasets []chartJSDataset `json:"datasets"`
}

type chartJSDataset struct {
	Label       string    `json:"label"`
	Data        []float64 `json:"data"`
	BorderColor string    `json:"borderColor"`
	BorderWidth float64   `json:"borderWidth"`
	PointRadius int       `json:"pointRadius"`
	Fill        bool      `json:"fill"`
	Tension     float64   `json:"tension"`
}

type chartJSOptions struct {
	Responsive bool          `json:"responsive"`
	Plugins    chartJSPlugin `json:"plugins"`
	Scales     chartJSScales `json:"scales"`
}

type chartJSPlugin struct {
	Legend struct {
		Display bool `json:"display"`
	} `json:"legend"`
}

type chartJSScales struct {
	Y chartJSAxis `json:"y"`
}

type chartJSAxis struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChartJS builds the Chart.js configuration for s. Tension is 0: points are
// joined by straight segments.
func ChartJS(s Series) ChartJSConfig {
	labels := s.Labels
	if labels == nil {
		labels = []string{}
	}
	scores := s.Scores
	if scores == nil {
		scores = []float64{}
	}
	return ChartJSConfig{
		Type: "line",
		Data: chartJSData{
			Labels: labels,
			Datasets: []chartJSDataset{{
				Label:       "감성점수",
				Data:        scores,
				BorderColor: "#4f8ef7",
				BorderWidth: 2,
				PointRadius: 3,
			}},
		},
		Options: chartJSOptions{
			Responsive: true,
			Scales:     chartJSScales{Y: chartJSAxis{Min: YMin, Max: YMax}},
		},
	}
}

// JSON returns the configuration as a JSON document.
func (c ChartJSConfig) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// ChartJSRenderer produces widgets whose View is the Chart.js JSON config.
type ChartJSRenderer struct{}

// Render implements Renderer.
func (ChartJSRenderer) Render(s Series) (Widget, error) {
	if s.Len() == 0 {
		return nil, ErrEmptySeries
	}
	b, err := ChartJS(s).JSON()
	if err != nil {
		return nil, err
	}
	return &textWidget{text: string(b)}, nil
}
