package aging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lt "github.com/cleared-dev/ledgercore/internal/ledgertest"
	"github.com/cleared-dev/ledgercore/internal/mapping"
	"github.com/cleared-dev/ledgercore/internal/model"
)

var day0 = model.Date(2024, 1, 1)

func on(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func roles() mapping.Resolved {
	return mapping.Resolve(mapping.Defaults(), lt.Chart())
}

func invoice(id string, day int, customer, amount string) model.Transaction {
	return lt.Tx(id, on(day), "Invoice to "+customer, lt.D(lt.AR, amount), lt.C(lt.Sales, amount))
}

func payment(id string, day int, customer, amount string) model.Transaction {
	return lt.Tx(id, on(day), "Payment from "+customer, lt.D(lt.Bank, amount), lt.C(lt.AR, amount))
}

func TestBuild_FIFO(t *testing.T) {
	txns := []model.Transaction{
		invoice("i1", 0, "Acme", "100"),
		invoice("i2", 10, "Acme", "50"),
		payment("p1", 15, "Acme", "120"),
	}
	r := Build(txns, roles(), on(20), Options{})

	require.Len(t, r.Customers, 1)
	acme := r.Customers[0]
	assert.Equal(t, "Acme", acme.Name)
	require.Len(t, acme.Invoices, 1, "oldest invoice is fully retired")
	assert.Equal(t, "i2", acme.Invoices[0].TransactionID)
	lt.AssertAmount(t, "30", acme.Invoices[0].Remaining)
	assert.Equal(t, 10, acme.Invoices[0].Age)
	assert.Equal(t, Days1To30, acme.Invoices[0].Bucket)
	lt.AssertAmount(t, "30", acme.Total())
	lt.AssertAmount(t, "0", acme.Unapplied)
	lt.AssertAmount(t, "30", r.Total())
}

func TestBuild_OrderOfInputDoesNotMatter(t *testing.T) {
	txns := []model.Transaction{
		payment("p1", 15, "Acme", "120"),
		invoice("i2", 10, "Acme", "50"),
		invoice("i1", 0, "Acme", "100"),
	}
	r := Build(txns, roles(), on(20), Options{})
	require.Len(t, r.Customers, 1)
	require.Len(t, r.Customers[0].Invoices, 1)
	assert.Equal(t, "i2", r.Customers[0].Invoices[0].TransactionID)
}

func TestBuild_SameDayPaymentFirstStaysUnapplied(t *testing.T) {
	txns := []model.Transaction{
		payment("p1", 5, "Acme", "100"),
		invoice("i1", 5, "Acme", "100"),
	}
	r := Build(txns, roles(), on(10), Options{})

	require.Len(t, r.Customers, 1)
	acme := r.Customers[0]
	require.Len(t, acme.Invoices, 1, "a payment recorded before the invoice cannot retire it")
	assert.Equal(t, "i1", acme.Invoices[0].TransactionID)
	lt.AssertAmount(t, "100", acme.Invoices[0].Remaining)
	lt.AssertAmount(t, "100", acme.Unapplied)
	lt.AssertAmount(t, "100", r.Unapplied)
}

func TestBuild_SameDayInvoiceFirstIsRetired(t *testing.T) {
	txns := []model.Transaction{
		invoice("i1", 5, "Acme", "100"),
		payment("p1", 5, "Acme", "100"),
	}
	r := Build(txns, roles(), on(10), Options{})

	assert.Empty(t, r.Customers)
	lt.AssertAmount(t, "0", r.Total())
	lt.AssertAmount(t, "0", r.Unapplied)
}

func TestBuild_Buckets(t *testing.T) {
	asOf := on(200)
	tests := []struct {
		age  int
		want Bucket
	}{
		{0, Current},
		{1, Days1To30},
		{30, Days1To30},
		{31, Days31To60},
		{60, Days31To60},
		{61, Days61To90},
		{90, Days61To90},
		{91, Over90},
		{199, Over90},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			txns := []model.Transaction{invoice("i", 200-tt.age, "Acme", "10")}
			r := Build(txns, roles(), asOf, Options{})
			require.Len(t, r.Customers, 1)
			assert.Equal(t, tt.age, r.Customers[0].Invoices[0].Age)
			assert.Equal(t, tt.want, r.Customers[0].Invoices[0].Bucket)
			lt.AssertAmount(t, "10", r.Totals[tt.want])
		})
	}
	assert.Equal(t, Current, BucketFor(-5), "future-dated is current")
}

func TestBuild_Customers(t *testing.T) {
	txns := []model.Transaction{
		invoice("i1", 0, "Zeta Ltd", "100"),
		invoice("i2", 1, "acme", "40"),
		invoice("i3", 2, "ACME", "60"),
		lt.Tx("i4", on(3), "Misc adjustment", lt.D(lt.AR, "25"), lt.C(lt.Sales, "25")),
		payment("p1", 4, "Zeta Ltd", "100"),
	}
	r := Build(txns, roles(), on(10), Options{})

	require.Len(t, r.Customers, 2, "settled customers are dropped")
	assert.Equal(t, "acme", r.Customers[0].Name, "names group case-insensitively")
	lt.AssertAmount(t, "100", r.Customers[0].Total())
	assert.Len(t, r.Customers[0].Invoices, 2)

	assert.Equal(t, UnknownCustomer, r.Customers[1].Name, "unknown customer sorts last")
	lt.AssertAmount(t, "25", r.Customers[1].Total())
	lt.AssertAmount(t, "125", r.Total())
}

func TestBuild_ContactWins(t *testing.T) {
	tx := invoice("i1", 0, "Someone Else", "80")
	tx.Contact = "Acme"
	pay := lt.Tx("p1", on(1), "Bank transfer", lt.D(lt.Bank, "30"), lt.C(lt.AR, "30"))
	pay.Contact = "Acme"

	r := Build([]model.Transaction{tx, pay}, roles(), on(5), Options{})
	require.Len(t, r.Customers, 1)
	assert.Equal(t, "Acme", r.Customers[0].Name)
	lt.AssertAmount(t, "50", r.Customers[0].Total())
}

func TestBuild_Overpayment(t *testing.T) {
	txns := []model.Transaction{
		invoice("i1", 0, "Acme", "100"),
		payment("p1", 5, "Acme", "130"),
	}
	r := Build(txns, roles(), on(10), Options{})
	require.Len(t, r.Customers, 1)
	assert.Empty(t, r.Customers[0].Invoices)
	lt.AssertAmount(t, "0", r.Customers[0].Total())
	lt.AssertAmount(t, "30", r.Customers[0].Unapplied)
	lt.AssertAmount(t, "30", r.Unapplied)
	lt.AssertAmount(t, "0", r.Total(), "overpayment is not a negative receivable")
}

func TestBuild_ExcludesAfterReportDate(t *testing.T) {
	txns := []model.Transaction{
		invoice("i1", 0, "Acme", "100"),
		payment("p1", 30, "Acme", "100"),
	}
	r := Build(txns, roles(), on(29), Options{})
	lt.AssertAmount(t, "100", r.Total())

	r = Build(txns, roles(), on(30), Options{})
	lt.AssertAmount(t, "0", r.Total())
	assert.Empty(t, r.Customers)
}

func TestBuild_AgeByDueDate(t *testing.T) {
	tx := invoice("i1", 0, "Acme", "100")
	tx.DueDate = on(30)
	r := Build([]model.Transaction{tx}, roles(), on(45), Options{AgeBy: model.AgeByDueDate})
	require.Len(t, r.Customers, 1)
	assert.Equal(t, 15, r.Customers[0].Invoices[0].Age)

	r = Build([]model.Transaction{tx}, roles(), on(45), Options{AgeBy: model.AgeByInvoiceDate})
	assert.Equal(t, 45, r.Customers[0].Invoices[0].Age)
}

func TestBuild_NoReceivablesAccount(t *testing.T) {
	chart := []model.Account{{ID: lt.Bank, Code: "10000", Name: "Bank", Type: model.AccountTypeAsset}}
	r := Build([]model.Transaction{invoice("i1", 0, "Acme", "100")}, mapping.Resolve(mapping.Defaults(), chart), on(1), Options{})
	assert.Empty(t, r.Customers)
	lt.AssertAmount(t, "0", r.Total())
	for _, b := range Buckets {
		lt.AssertAmount(t, "0", r.Totals[b])
	}
}

func TestDescriptionClassifier(t *testing.T) {
	tests := []struct {
		desc string
		want string
	}{
		{"Invoice to Acme Ltd", "Acme Ltd"},
		{"Payment from Acme Ltd - March", "Acme Ltd"},
		{"Invoice #12 to Widget Co (net 30)", "Widget Co"},
		{"INVOICE TO Big Corp, ref 7", "Big Corp"},
		{"Consulting for Acme to be invoiced", "be invoiced"},
		{"Services for Globex", "Globex"},
		{"Payment from Acme for invoice 12", "Acme"},
		{"Misc adjustment", ""},
		{"Invoice to", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, ok := DescriptionClassifier{}.Classify(model.Transaction{Description: tt.desc})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != "", ok)
		})
	}
}

func TestClassifierFunc(t *testing.T) {
	c := ClassifierFunc(func(tx model.Transaction) (string, bool) { return "Fixed", true })
	r := Build([]model.Transaction{invoice("i1", 0, "Acme", "10")}, roles(), on(1), Options{Classifier: c})
	require.Len(t, r.Customers, 1)
	assert.Equal(t, "Fixed", r.Customers[0].Name)
}
