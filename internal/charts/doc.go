// Package charts adapts analytics views to presentation: bar chart specs with
// placeholder titles for empty selections, go-chart rendering to SVG or PNG,
// and the formatted KPI cards shared by both front-ends.
package charts
