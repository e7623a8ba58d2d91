package streaminghttp

import "time"

// Resource describes one named fixture served by the gateway: a one-shot JSON
// route at /api/<name> and an event-stream route at /stream/<name>.
type Resource struct {
	// Name is the route suffix. Must be non-empty and unique per handler.
	Name string
	// File is the fixture file name resolved per subject.
	File string
	// StreamInterval is the re-poll period of the stream route.
	StreamInterval time.Duration
}

// DefaultResources returns the fixture set served by the demo gateway.
func DefaultResources() []Resource {
	return []Resource{
		{Name: "net_worth", File: "fetch_net_worth.json", StreamInterval: 2 * time.Second},
		{Name: "credit_report", File: "fetch_credit_report.json", StreamInterval: 5 * time.Second},
		{Name: "epf_details", File: "fetch_epf_details.json", StreamInterval: 2 * time.Second},
		{Name: "mf_transactions", File: "fetch_mf_transactions.json", StreamInterval: 2 * time.Second},
		{Name: "bank_transactions", File: "fetch_bank_transactions.json", StreamInterval: 2 * time.Second},
		{Name: "stock_transactions", File: "fetch_stock_transactions.json", StreamInterval: 2 * time.Second},
	}
}
