package harness

// CaseResult is the observed outcome of one scenario case.
type CaseResult struct {
	Formula string   `json:"formula"`
	Valid   bool     `json:"valid"`
	Code    string   `json:"code,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	Expr    string   `json:"expr,omitempty"`
	SQL     string   `json:"sql,omitempty"`
	ID      string   `json:"id,omitempty"`
	Tickers []string `json:"tickers,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every case matched its expectations.
	Pass bool `json:"pass"`

	// Cases holds the observed outcome of every case, in scenario order.
	Cases []CaseResult `json:"cases"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Cases:  []CaseResult{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
