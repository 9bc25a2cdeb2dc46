package services

// Front-end names used to tag recomputation logs and metrics.
const (
	FrontEndCallback = "callback"
	FrontEndReactive = "reactive"
	FrontEndReport   = "report"
)
