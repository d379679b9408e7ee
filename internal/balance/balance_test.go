package balance

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	lt "github.com/cleared-dev/ledgercore/internal/ledgertest"
	"github.com/cleared-dev/ledgercore/internal/model"
)

func TestOf_EndToEnd(t *testing.T) {
	chart := lt.Chart()
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 1, 1), "Cash sale", lt.D(lt.Bank, "500"), lt.C(lt.Sales, "500")),
	}

	lt.AssertAmount(t, "500", Of(lt.Find(chart, lt.Bank), txns, model.AllTime))
	lt.AssertAmount(t, "500", Of(lt.Find(chart, lt.Sales), txns, model.AllTime))
	lt.AssertAmount(t, "500", OfType(model.AccountTypeAsset, txns, chart, model.AllTime))
	lt.AssertAmount(t, "500", OfType(model.AccountTypeIncome, txns, chart, model.AllTime))
	lt.AssertAmount(t, "0", OfType(model.AccountTypeLiability, txns, chart, model.AllTime))
}

func TestOf_SignConventions(t *testing.T) {
	chart := lt.Chart()
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 1, 1), "Loan drawn", lt.D(lt.Bank, "1000"), lt.C(lt.Loan, "1000")),
		lt.Tx("t2", model.Date(2024, 1, 2), "Rent", lt.D(lt.Rent, "300"), lt.C(lt.Bank, "300")),
		lt.Tx("t3", model.Date(2024, 1, 3), "Refund", lt.D(lt.Sales, "50"), lt.C(lt.Bank, "50")),
	}

	lt.AssertAmount(t, "650", Of(lt.Find(chart, lt.Bank), txns, model.AllTime))
	lt.AssertAmount(t, "1000", Of(lt.Find(chart, lt.Loan), txns, model.AllTime))
	lt.AssertAmount(t, "300", Of(lt.Find(chart, lt.Rent), txns, model.AllTime))
	lt.AssertAmount(t, "-50", Of(lt.Find(chart, lt.Sales), txns, model.AllTime), "debit on income is negative")
}

func TestOf_OpeningBalance(t *testing.T) {
	bank := model.Account{ID: lt.Bank, Type: model.AccountTypeAsset, OpeningBalance: lt.Amt("200")}
	loan := model.Account{ID: lt.Loan, Type: model.AccountTypeLiability, OpeningBalance: lt.Amt("200")}
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 3, 1), "Repay", lt.D(lt.Loan, "50"), lt.C(lt.Bank, "50")),
	}

	lt.AssertAmount(t, "150", Of(bank, txns, model.AllTime))
	lt.AssertAmount(t, "150", Of(loan, txns, model.AllTime), "credit-normal opening in normal sign")
	lt.AssertAmount(t, "200", AsOf(bank, txns, model.Date(2024, 2, 28)))
	lt.AssertAmount(t, "150", Of(bank, txns, model.Between(model.Date(2024, 3, 1), model.Date(2024, 3, 31))),
		"windowed query keeps opening balance")
	lt.AssertAmount(t, "200", Of(bank, txns, model.Between(model.Date(2024, 4, 1), model.Date(2024, 4, 30))),
		"window without lines yields opening balance")
	lt.AssertAmount(t, "200", Of(bank, nil, model.AllTime), "no lines yields opening balance")
	lt.AssertAmount(t, "0", Of(model.Account{ID: "ghost", Type: model.AccountTypeAsset}, txns, model.AllTime))
}

func TestOf_WindowedOpeningOnly(t *testing.T) {
	acct := model.Account{ID: "a", Type: model.AccountTypeAsset, OpeningBalance: lt.Amt("100")}
	year := model.Between(model.Date(2024, 1, 1), model.Date(2024, 12, 31))

	lt.AssertAmount(t, "100", Of(acct, nil, model.AllTime))
	lt.AssertAmount(t, "100", Of(acct, nil, year))
	lt.AssertAmount(t, "100", Of(acct, nil, model.Period{From: model.Date(2024, 1, 1)}))
	lt.AssertAmount(t, "0", Of(acct, nil, model.Between(model.Date(2024, 12, 31), model.Date(2024, 1, 1))), "empty period")
}

func TestFlow(t *testing.T) {
	bank := model.Account{ID: lt.Bank, Type: model.AccountTypeAsset, OpeningBalance: lt.Amt("200")}
	sales := model.Account{ID: lt.Sales, Type: model.AccountTypeIncome, OpeningBalance: lt.Amt("75")}
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 3, 1), "Sale", lt.D(lt.Bank, "40"), lt.C(lt.Sales, "40")),
		lt.Tx("t2", model.Date(2024, 4, 1), "Fee", lt.D(lt.Rent, "15"), lt.C(lt.Bank, "15")),
	}
	march := model.Between(model.Date(2024, 3, 1), model.Date(2024, 3, 31))

	lt.AssertAmount(t, "40", Flow(bank, txns, march))
	lt.AssertAmount(t, "25", Flow(bank, txns, model.AllTime), "opening never counts as flow")
	lt.AssertAmount(t, "40", Flow(sales, txns, model.AllTime))
	lt.AssertAmount(t, "0", Flow(sales, nil, march))
	lt.AssertAmount(t, "80", SumFlow([]model.Account{bank, sales}, txns, march))
	lt.AssertAmount(t, "40", FlowOfType(model.AccountTypeIncome, txns, []model.Account{bank, sales}, model.AllTime))
}

func TestOf_DateFilterInclusive(t *testing.T) {
	bank := model.Account{ID: lt.Bank, Type: model.AccountTypeAsset}
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 1, 1), "", lt.D(lt.Bank, "1"), lt.C(lt.Sales, "1")),
		lt.Tx("t2", model.Date(2024, 1, 15), "", lt.D(lt.Bank, "10"), lt.C(lt.Sales, "10")),
		lt.Tx("t3", model.Date(2024, 1, 31), "", lt.D(lt.Bank, "100"), lt.C(lt.Sales, "100")),
		lt.Tx("t4", model.Date(2024, 2, 1), "", lt.D(lt.Bank, "1000"), lt.C(lt.Sales, "1000")),
	}

	tests := []struct {
		name string
		p    model.Period
		want string
	}{
		{"all time", model.AllTime, "1111"},
		{"both bounds inclusive", model.Between(model.Date(2024, 1, 1), model.Date(2024, 1, 31)), "111"},
		{"single day", model.Between(model.Date(2024, 1, 15), model.Date(2024, 1, 15)), "10"},
		{"from only", model.Period{From: model.Date(2024, 1, 31)}, "1100"},
		{"to only", model.Through(model.Date(2024, 1, 15)), "11"},
		{"from after to", model.Between(model.Date(2024, 2, 1), model.Date(2024, 1, 1)), "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt.AssertAmount(t, tt.want, Of(bank, txns, tt.p))
		})
	}
}

func TestMovement(t *testing.T) {
	bank := model.Account{ID: lt.Bank, Type: model.AccountTypeAsset, OpeningBalance: lt.Amt("999")}
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 1, 1), "", lt.D(lt.Bank, "40"), lt.C(lt.Sales, "40")),
		lt.Tx("t2", model.Date(2024, 1, 2), "", lt.D(lt.Rent, "15"), lt.C(lt.Bank, "15")),
	}
	debit, credit := Movement(bank, txns, model.AllTime)
	lt.AssertAmount(t, "40", debit)
	lt.AssertAmount(t, "15", credit)
}

func TestOf_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	chart := lt.Chart()
	txns := lt.Random(r, chart, 200, model.Date(2024, 1, 1), 365)
	window := model.Between(model.Date(2024, 3, 1), model.Date(2024, 9, 30))

	for trial := 0; trial < 5; trial++ {
		shuffled := lt.Shuffled(r, txns)
		for _, a := range chart {
			assert.True(t, Of(a, txns, model.AllTime).Equal(Of(a, shuffled, model.AllTime)), "account %s", a.ID)
			assert.True(t, Of(a, txns, window).Equal(Of(a, shuffled, window)), "account %s windowed", a.ID)
		}
	}
}

func TestOf_DoesNotMutateInput(t *testing.T) {
	chart := lt.Chart()
	txns := []model.Transaction{
		lt.Tx("t1", model.Date(2024, 1, 1), "", lt.D(lt.Bank, "5"), lt.C(lt.Sales, "5")),
	}
	before := txns[0].Clone()
	_ = OfType(model.AccountTypeAsset, txns, chart, model.AllTime)
	assert.Equal(t, before, txns[0])
}

func TestTypeTotalsNetToZero(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	chart := lt.Chart()
	txns := lt.Random(r, chart, 300, model.Date(2024, 1, 1), 365)

	debitSide := OfType(model.AccountTypeAsset, txns, chart, model.AllTime).
		Add(OfType(model.AccountTypeExpense, txns, chart, model.AllTime))
	creditSide := OfType(model.AccountTypeLiability, txns, chart, model.AllTime).
		Add(OfType(model.AccountTypeEquity, txns, chart, model.AllTime)).
		Add(OfType(model.AccountTypeIncome, txns, chart, model.AllTime))
	assert.True(t, debitSide.Equal(creditSide), "%s != %s", debitSide, creditSide)
}
