package core

// Summary is the dashboard aggregate for one user's ledger.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	Net          Money
	// MonthSpan is the whole-calendar-month distance between the oldest
	// transaction and now, floored at 1.
	MonthSpan int
	// PredictedNextMonthExpense is TotalExpense averaged over MonthSpan,
	// rounded half away from zero to the cent.
	PredictedNextMonthExpense Money
	NegativeNet               bool
}

// Summarize computes the dashboard aggregate for the given transactions.
// It is a pure function: "now" is explicit input, never the system clock.
// Transactions with a category other than "income" or "expense" contribute
// to neither sum. Order of the input list does not matter.
func Summarize(transactions []Transaction, now Date) Summary {
	var income, expense int64
	for _, t := range transactions {
		switch t.Category {
		case CategoryIncome:
			income += t.Amount.Cents
		case CategoryExpense:
			expense += t.Amount.Cents
		}
	}

	months := monthSpan(transactions, now)
	predicted := divideRounded(expense, int64(months))
	net := income - expense

	return Summary{
		TotalIncome:               Money{Cents: income},
		TotalExpense:              Money{Cents: expense},
		Net:                       Money{Cents: net},
		MonthSpan:                 months,
		PredictedNextMonthExpense: Money{Cents: predicted},
		NegativeNet:               net < 0,
	}
}

// monthSpan counts calendar-month boundaries crossed between the oldest
// transaction and now, ignoring the day of month, floored at 1. An empty
// ledger spans one month.
func monthSpan(transactions []Transaction, now Date) int {
	if len(transactions) == 0 {
		return 1
	}
	first := transactions[0].Date
	for _, t := range transactions[1:] {
		if t.Date.Before(first.Time) {
			first = t.Date
		}
	}
	months := (now.Year()-first.Year())*12 + (now.Month() - first.Month())
	if months < 1 {
		return 1
	}
	return months
}

// divideRounded divides cents by n rounding half away from zero.
func divideRounded(cents, n int64) int64 {
	if n == 0 {
		return 0
	}
	neg := cents < 0
	if neg {
		cents = -cents
	}
	q := (cents + n/2) / n
	if neg {
		return -q
	}
	return q
}
