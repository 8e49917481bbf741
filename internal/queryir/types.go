package queryir

// Query represents a compiled formula query.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode()
}

// Term is a value expression in a select column.
//
// This is a sealed interface - only types in this package implement it.
type Term interface {
	termNode()
}

// Reporting period and duration markers of annual facts.
const (
	PeriodQ4     = "Q4"
	DurationYear = "Year"

	// DurationUnspecified matches facts stored without a duration
	// (instant values such as balance sheet items).
	DurationUnspecified = ""
)

// Select is the single query shape a formula compiles to.
//
// Semantics:
//
//	WITH results AS (SELECT <columns> FROM <from> <joins>)
//	SELECT <column aliases> FROM results
//	WHERE <filter> ORDER BY <order by> [LIMIT <limit>]
type Select struct {
	From    string     // Base relation (companies)
	Columns []Column   // Output columns, in order
	Joins   []FactJoin // One inner join per distinct fact
	Filter  Comparison // Inequality over two column aliases
	OrderBy []string   // Column aliases, ascending
	Limit   int        // 0 = unlimited
}

func (Select) queryNode() {}

// Column is one output column.
type Column struct {
	Expr  Term
	Alias string
}

// FactJoin joins one fact per company from the facts relation.
//
// Example:
//
//	FactJoin{Table: "facts", Alias: "NetIncome2023", Label: "NetIncome",
//	  Year: "2023", Period: "Q4", Durations: []string{"Year", ""}}
//
// Translates to SQL:
//
//	JOIN facts AS NetIncome2023 ON NetIncome2023.cik = companies.cik
//	  AND NetIncome2023.concept = 'NetIncome' AND NetIncome2023.fiscal_year = 2023
//	  AND NetIncome2023.fiscal_period = 'Q4'
//	  AND (NetIncome2023.duration = 'Year' OR NetIncome2023.duration IS NULL)
type FactJoin struct {
	Table     string
	Alias     string
	Label     string
	Year      string
	Period    string
	Durations []string // Accepted durations; DurationUnspecified matches NULL
}

// Comparison filters rows by comparing two column aliases.
type Comparison struct {
	Left  string
	Op    string // "<" or ">"
	Right string
}

// ColumnRef references a column of a relation ("companies.ticker").
type ColumnRef struct {
	Table  string
	Column string
}

func (ColumnRef) termNode() {}

// FactValue is the value of a joined fact ("Revenue2023.value").
type FactValue struct {
	Alias string
}

func (FactValue) termNode() {}

// MarketCap is the close price times shares outstanding:
// "(companies.close * SharesOutstanding2023.value)".
type MarketCap struct {
	Close  ColumnRef
	Shares FactValue
}

func (MarketCap) termNode() {}

// Number is a non-negative integer literal.
type Number struct {
	Digits string
}

func (Number) termNode() {}

// Operator is one of + - * / ( ).
type Operator struct {
	Symbol string
}

func (Operator) termNode() {}

// Arith is an arithmetic expression kept in source order.
type Arith struct {
	Parts []Term
}

func (Arith) termNode() {}
