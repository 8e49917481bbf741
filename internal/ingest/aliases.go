package ingest

import "github.com/jsripraj/stock-alchemy/internal/concept"

// Alias maps an XBRL tag to a concept name.
type Alias struct {
	Tag     string
	Concept string
}

// DefaultAliases is the tag table for concept.DefaultConcepts. When two
// tags of one concept report the same period, the earlier entry wins.
var DefaultAliases = []Alias{
	{"EntityCommonStockSharesOutstanding", concept.MarketCapBase},
	{"CommonStockSharesOutstanding", concept.MarketCapBase},

	{"CashAndCashEquivalentsAtCarryingValue", "Cash and Cash Equivalents"},
	{"CashCashEquivalentsRestrictedCashAndRestrictedCashEquivalents", "Cash and Cash Equivalents"},

	{"Assets", "Assets"},

	{"ShortTermBorrowings", "Short-Term Debt"},
	{"DebtCurrent", "Short-Term Debt"},
	{"LongTermDebtCurrent", "Short-Term Debt"},

	{"LongTermDebtNoncurrent", "Long-Term Debt"},
	{"LongTermDebt", "Long-Term Debt"},

	{"StockholdersEquity", "Equity"},
	{"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest", "Equity"},

	{"RevenueFromContractWithCustomerExcludingAssessedTax", "Revenue"},
	{"Revenues", "Revenue"},
	{"SalesRevenueNet", "Revenue"},

	{"NetIncomeLoss", "Net Income"},

	{"NetCashProvidedByUsedInOperatingActivities", "Cash Flow from Operating Activities"},
	{"NetCashProvidedByUsedInInvestingActivities", "Cash Flow from Investing Activities"},
	{"NetCashProvidedByUsedInFinancingActivities", "Cash Flow from Financing Activities"},

	{"PaymentsToAcquirePropertyPlantAndEquipment", "Capital Expenditures"},

	{"PaymentsOfDividends", "Dividends"},
	{"PaymentsOfDividendsCommonStock", "Dividends"},
}
