package services

import (
	"extrack/internal/core"
)

func txRow(date, desc string, amount any, category any) core.Row {
	row := core.Row{core.TextCell(date), core.TextCell(desc), {Value: amount}, {Value: category}}
	return row
}

// scenarioRows is the three-transaction fixture used across the pipeline tests.
func scenarioRows() []core.Row {
	return []core.Row{
		txRow("2023-01-05", "Coffee", -4.5, "Food"),
		txRow("2023-01-20", "Salary", 2000.0, "Income"),
		txRow("2023-02-01", "Rent", -800.0, "Housing"),
	}
}

func scenarioTransactions() []core.Transaction {
	return []core.Transaction{
		{Date: "2023-01-05", Description: "Coffee", Amount: -4.5, Category: "Food"},
		{Date: "2023-01-20", Description: "Salary", Amount: 2000, Category: "Income"},
		{Date: "2023-02-01", Description: "Rent", Amount: -800, Category: "Housing"},
	}
}

func defaultLayout() core.Layout {
	return core.Layout{Columns: core.DefaultColumns()}
}
