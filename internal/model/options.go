package model

// AgeBy selects the date an open invoice is aged from.
type AgeBy string

const (
	AgeByInvoiceDate AgeBy = "invoice-date"
	AgeByDueDate     AgeBy = "due-date"
)

// ReportOptions are presentation switches passed through from settings.
// They never change the underlying arithmetic.
type ReportOptions struct {
	ShowZeroBalances bool
	ShowAccountCodes bool
	AgeBy            AgeBy
}
