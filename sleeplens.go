// Package sleeplens is an interactive dashboard over the Sleep, Health and
// Lifestyle dataset.
//
// Layout:
//
//	schema     column catalog, metric selector, age groups
//	dataset    CSV/MySQL loading and normalization into Records
//	engine     renderer-agnostic chart specs, grouping, box statistics
//	dashboard  the four chart builders and the metric-selection controller
//	render     ECharts options (browser) and go-chart PNG (export)
//	server     page, JSON/PNG endpoints and the websocket session
//	config     viper settings and the zerolog logger
//
// The binary lives in cmd/sleeplens:
//
//	sleeplens --data Sleep_health_and_lifestyle_dataset.csv
//
// The dataset is loaded once at startup and never mutated; every chart is
// recomputed from it on selection.
package sleeplens
