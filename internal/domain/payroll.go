package domain

// PayrollRecord holds the pay data used when drafting money-related replies.
type PayrollRecord struct {
	EmployeeID           string
	Currency             string
	BaseHourlyRate       float64
	PendingOvertimeHours float64
	OvertimeMultiplier   float64
}

// OvertimeShortfall is the amount owed on pending overtime hours when the
// multiplier moves from the record's current value to requested.
// A requested multiplier at or below the current one owes nothing.
func (p *PayrollRecord) OvertimeShortfall(requested float64) float64 {
	if p == nil || requested <= p.OvertimeMultiplier {
		return 0
	}
	return p.PendingOvertimeHours * p.BaseHourlyRate * (requested - p.OvertimeMultiplier)
}
