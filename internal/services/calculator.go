package services

import "github.com/shopspring/decimal"

// Statutory deduction rates, as fractions of basic salary.
var (
	pfRate  = decimal.RequireFromString("0.12")
	esiRate = decimal.RequireFromString("0.0175")
	taxRate = decimal.RequireFromString("0.10")
)

// Breakdown is the result of a payroll calculation. Component amounts are
// rounded to two places for display; Deductions is rounded once from the
// full-precision sum and NetSalary is BasicSalary minus Deductions.
type Breakdown struct {
	BasicSalary  decimal.Decimal `json:"basic_salary"`
	TotalDays    int             `json:"total_days"`
	PresentDays  int             `json:"present_days"`
	AbsentDays   int             `json:"absent_days"`
	PerDaySalary decimal.Decimal `json:"per_day_salary"`
	LOPAmount    decimal.Decimal `json:"lop_amount"`
	PF           decimal.Decimal `json:"pf"`
	ESI          decimal.Decimal `json:"esi"`
	Tax          decimal.Decimal `json:"tax"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetSalary    decimal.Decimal `json:"net_salary"`
}

// Compute derives absent days, deductions and net salary from attendance and
// basic salary. It has no failure modes: zero working days yields no loss of
// pay, and malformed attendance is not rejected here.
func Compute(basicSalary decimal.Decimal, totalDays, presentDays int) Breakdown {
	absentDays := totalDays - presentDays

	perDay := decimal.Zero
	if totalDays > 0 {
		perDay = basicSalary.Div(decimal.NewFromInt(int64(totalDays)))
	}
	lop := perDay.Mul(decimal.NewFromInt(int64(absentDays)))

	pf := basicSalary.Mul(pfRate)
	esi := basicSalary.Mul(esiRate)
	tax := basicSalary.Mul(taxRate)

	deductions := pf.Add(esi).Add(tax).Add(lop).Round(2)

	return Breakdown{
		BasicSalary:  basicSalary,
		TotalDays:    totalDays,
		PresentDays:  presentDays,
		AbsentDays:   absentDays,
		PerDaySalary: perDay.Round(2),
		LOPAmount:    lop.Round(2),
		PF:           pf.Round(2),
		ESI:          esi.Round(2),
		Tax:          tax.Round(2),
		Deductions:   deductions,
		NetSalary:    basicSalary.Sub(deductions),
	}
}
