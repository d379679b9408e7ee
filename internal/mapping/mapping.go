// Package mapping resolves the account roles reports depend on (cash,
// receivables, working capital, ...) from configured account names.
package mapping

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// Role names a group of accounts a report treats specially.
type Role string

const (
	RoleCash                  Role = "cash"
	RoleReceivables           Role = "receivables"
	RoleInventory             Role = "inventory"
	RolePayables              Role = "payables"
	RoleSalesTaxPayable       Role = "sales_tax_payable"
	RoleWorkingCapital        Role = "working_capital"
	RoleCOGS                  Role = "cogs"
	RoleNonCurrentAssets      Role = "non_current_assets"
	RoleNonCurrentLiabilities Role = "non_current_liabilities"
)

// maxSuggestDistance bounds how far a "did you mean" suggestion may be.
const maxSuggestDistance = 3

// Names lists, per role, account names or codes. It is the mapping
// section of ledgercore.yaml. A nil role is unset and takes the default; an
// empty list means the chart has no such account.
type Names struct {
	Cash                  []string `yaml:"cash"`
	Receivables           []string `yaml:"receivables"`
	Inventory             []string `yaml:"inventory"`
	Payables              []string `yaml:"payables"`
	SalesTaxPayable       []string `yaml:"sales_tax_payable"`
	WorkingCapital        []string `yaml:"working_capital"`
	COGS                  []string `yaml:"cogs"`
	NonCurrentAssets      []string `yaml:"non_current_assets"`
	NonCurrentLiabilities []string `yaml:"non_current_liabilities"`
}

// Defaults returns the names used by the default charts of accounts.
func Defaults() Names {
	return Names{}.WithDefaults()
}

// ForChart returns the defaults that resolve against accounts.
func ForChart(accounts []model.Account) Names {
	return Defaults().Prune(accounts)
}

// WithDefaults fills every unset role. An unset working-capital list is
// derived from the receivables, inventory, payables and sales tax roles.
func (n Names) WithDefaults() Names {
	d := Names{
		Cash:                  []string{"Cash", "Bank"},
		Receivables:           []string{"Accounts Receivable"},
		Inventory:             []string{"Inventory"},
		Payables:              []string{"Accounts Payable"},
		SalesTaxPayable:       []string{"Sales Tax Payable"},
		COGS:                  []string{"Cost of Goods Sold"},
		NonCurrentAssets:      []string{"Equipment"},
		NonCurrentLiabilities: []string{"Long-Term Loan"},
	}
	fill := func(dst *[]string, def []string) {
		if *dst == nil {
			*dst = def
		}
	}
	fill(&n.Cash, d.Cash)
	fill(&n.Receivables, d.Receivables)
	fill(&n.Inventory, d.Inventory)
	fill(&n.Payables, d.Payables)
	fill(&n.SalesTaxPayable, d.SalesTaxPayable)
	fill(&n.COGS, d.COGS)
	fill(&n.NonCurrentAssets, d.NonCurrentAssets)
	fill(&n.NonCurrentLiabilities, d.NonCurrentLiabilities)
	if n.WorkingCapital == nil {
		wc := []string{}
		wc = append(wc, n.Receivables...)
		wc = append(wc, n.Inventory...)
		wc = append(wc, n.Payables...)
		wc = append(wc, n.SalesTaxPayable...)
		n.WorkingCapital = wc
	}
	return n
}

// Prune drops names that match no account. A role left with nothing
// becomes an empty list, so it stays empty after WithDefaults.
func (n Names) Prune(accounts []model.Account) Names {
	keep := func(names []string) []string {
		if names == nil {
			return nil
		}
		out := []string{}
		for _, name := range names {
			if _, ok := Match(name, accounts); ok {
				out = append(out, name)
			}
		}
		return out
	}
	return Names{
		Cash:                  keep(n.Cash),
		Receivables:           keep(n.Receivables),
		Inventory:             keep(n.Inventory),
		Payables:              keep(n.Payables),
		SalesTaxPayable:       keep(n.SalesTaxPayable),
		WorkingCapital:        keep(n.WorkingCapital),
		COGS:                  keep(n.COGS),
		NonCurrentAssets:      keep(n.NonCurrentAssets),
		NonCurrentLiabilities: keep(n.NonCurrentLiabilities),
	}
}

func (n Names) byRole() []struct {
	role  Role
	names []string
} {
	return []struct {
		role  Role
		names []string
	}{
		{RoleCash, n.Cash},
		{RoleReceivables, n.Receivables},
		{RoleInventory, n.Inventory},
		{RolePayables, n.Payables},
		{RoleSalesTaxPayable, n.SalesTaxPayable},
		{RoleWorkingCapital, n.WorkingCapital},
		{RoleCOGS, n.COGS},
		{RoleNonCurrentAssets, n.NonCurrentAssets},
		{RoleNonCurrentLiabilities, n.NonCurrentLiabilities},
	}
}

// Unresolved is a configured name that matched no account.
type Unresolved struct {
	Role       Role
	Name       string
	Suggestion string // closest account name, if any is near enough
}

func (u Unresolved) String() string {
	s := fmt.Sprintf("%s: no account named %q", u.Role, u.Name)
	if u.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean %q?)", u.Suggestion)
	}
	return s
}

// Resolved holds the accounts matched for each role.
type Resolved struct {
	roles      map[Role][]model.Account
	Unresolved []Unresolved
}

// Resolve matches every configured name against the chart. Names that
// match nothing are collected in Unresolved rather than failing, so a
// renamed account degrades a report instead of breaking it.
func Resolve(names Names, accounts []model.Account) Resolved {
	r := Resolved{roles: make(map[Role][]model.Account)}
	for _, rn := range names.byRole() {
		seen := make(map[string]bool)
		for _, name := range rn.names {
			a, ok := Match(name, accounts)
			if !ok {
				r.Unresolved = append(r.Unresolved, Unresolved{
					Role:       rn.role,
					Name:       name,
					Suggestion: Suggest(name, accounts),
				})
				continue
			}
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			r.roles[rn.role] = append(r.roles[rn.role], a)
		}
	}
	return r
}

// Accounts returns the accounts matched for a role.
func (r Resolved) Accounts(role Role) []model.Account {
	return r.roles[role]
}

// IDs returns the set of account IDs matched for a role.
func (r Resolved) IDs(role Role) map[string]bool {
	ids := make(map[string]bool)
	for _, a := range r.roles[role] {
		ids[a.ID] = true
	}
	return ids
}

// Receivable returns the first receivables account.
func (r Resolved) Receivable() (model.Account, bool) {
	accts := r.roles[RoleReceivables]
	if len(accts) == 0 {
		return model.Account{}, false
	}
	return accts[0], true
}

// Match finds an account by exact code or case-insensitive name.
func Match(name string, accounts []model.Account) (model.Account, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Account{}, false
	}
	for _, a := range accounts {
		if a.Code == name {
			return a, true
		}
	}
	for _, a := range accounts {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return model.Account{}, false
}

// Suggest returns the account name closest to name by edit distance, or ""
// when nothing is within maxSuggestDistance.
func Suggest(name string, accounts []model.Account) string {
	best, bestDist := "", maxSuggestDistance+1
	target := strings.ToLower(name)
	for _, a := range accounts {
		d := levenshtein.ComputeDistance(target, strings.ToLower(a.Name))
		if d < bestDist {
			best, bestDist = a.Name, d
		}
	}
	return best
}
