package output

// ShowOutput is the JSON document produced by the show command.
type ShowOutput struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
	Message string              `json:"message,omitempty"`
	Summary ShowSummary         `json:"summary"`
}

// ShowSummary counts rows before and after filtering.
type ShowSummary struct {
	TotalRows   int `json:"total_rows"`
	VisibleRows int `json:"visible_rows"`
}

// HealthCheck is a single diagnostic result in a check report.
type HealthCheck struct {
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"`
	Details []string `json:"details,omitempty"`
}

// CheckOutput is the JSON document produced by the check command.
type CheckOutput struct {
	Checks          []HealthCheck `json:"checks"`
	Recommendations []string      `json:"recommendations,omitempty"`
	Summary         CheckSummary  `json:"summary"`
}

// CheckSummary aggregates check results and dataset shape.
type CheckSummary struct {
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Failed  int `json:"failed"`
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// VersionOutput is the JSON document produced by the version command.
type VersionOutput struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}
