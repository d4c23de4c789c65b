package domain

import "time"

type Namespace struct {
	Name        string
	State       string
	Description string
	OwnerEmail  string
	Retention   time.Duration
}

type Poller struct {
	Identity       string
	LastAccessTime time.Time
	RatePerSecond  float64
}

type TaskQueueInfo struct {
	Name    string
	Pollers []Poller
}
