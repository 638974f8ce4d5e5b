package transform

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed mapping.yaml
var defaultMappingYAML []byte

// AccountRoute is the ledger account a source account type/subtype posts to.
type AccountRoute struct {
	Code  string             `yaml:"code"`
	Class domain.AccountType `yaml:"class"`
}

type mappingFile struct {
	Version           int                                `yaml:"version"`
	Accounts          map[string]map[string]AccountRoute `yaml:"accounts"`
	ExpenseCategories map[string]string                  `yaml:"expense_categories"`
	IncomeCategories  map[string]string                  `yaml:"income_categories"`
	Defaults          struct {
		Expense string `yaml:"expense"`
		Income  string `yaml:"income"`
		Refund  string `yaml:"refund"`
	} `yaml:"defaults"`
	Payments struct {
		CashAccount string `yaml:"cash_account"`
		Rule        struct {
			Mode       string   `yaml:"mode"`
			Categories []string `yaml:"categories"`
			Substrings []string `yaml:"substrings"`
		} `yaml:"rule"`
	} `yaml:"payments"`
}

// Mapping is the immutable routing table used by the transform. Build it once with LoadMapping or
// DefaultMapping and pass it explicitly.
type Mapping struct {
	version            int
	accounts           map[string]AccountRoute // "type/subtype", normalized
	expense            map[string]string
	income             map[string]string
	defaultExpense     string
	defaultIncome      string
	refundIncome       string
	paymentCashAccount string
	paymentRule        PaymentRule
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// Normalize lowercases s and replaces each character outside [a-z0-9] with an underscore. Runs are
// not collapsed: "Rent & Utilities" becomes "rent___utilities".
func Normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "_")
}

func routeKey(accountType, subtype string) string {
	return Normalize(accountType) + "/" + Normalize(subtype)
}

// DefaultMapping parses the embedded mapping table.
func DefaultMapping() (*Mapping, error) {
	return LoadMapping(defaultMappingYAML)
}

// LoadMapping parses and validates a YAML mapping table.
func LoadMapping(data []byte) (*Mapping, error) {
	var f mappingFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	if f.Version <= 0 {
		return nil, fmt.Errorf("mapping version must be positive, got %d", f.Version)
	}
	if f.Defaults.Expense == "" || f.Defaults.Income == "" || f.Defaults.Refund == "" {
		return nil, fmt.Errorf("mapping defaults for expense, income and refund are required")
	}
	if f.Payments.CashAccount == "" {
		return nil, fmt.Errorf("mapping payments.cash_account is required")
	}

	m := &Mapping{
		version:            f.Version,
		accounts:           make(map[string]AccountRoute),
		expense:            normalizeKeys(f.ExpenseCategories),
		income:             normalizeKeys(f.IncomeCategories),
		defaultExpense:     f.Defaults.Expense,
		defaultIncome:      f.Defaults.Income,
		refundIncome:       f.Defaults.Refund,
		paymentCashAccount: f.Payments.CashAccount,
	}
	for typ, subtypes := range f.Accounts {
		for sub, route := range subtypes {
			if route.Code == "" {
				return nil, fmt.Errorf("mapping %s/%s: code is required", typ, sub)
			}
			if route.Class != domain.Asset && route.Class != domain.Liability {
				return nil, fmt.Errorf("mapping %s/%s: class must be asset or liability, got %q", typ, sub, route.Class)
			}
			m.accounts[routeKey(typ, sub)] = route
		}
	}

	rule, err := NewPaymentRule(f.Payments.Rule.Mode, f.Payments.Rule.Categories, f.Payments.Rule.Substrings)
	if err != nil {
		return nil, err
	}
	m.paymentRule = rule
	return m, nil
}

func normalizeKeys(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[Normalize(k)] = v
	}
	return out
}

// Version is the transform version stamped on every entry.
func (m *Mapping) Version() int { return m.version }

// Route resolves a source account type/subtype.
func (m *Mapping) Route(accountType, subtype string) (AccountRoute, bool) {
	r, ok := m.accounts[routeKey(accountType, subtype)]
	return r, ok
}

// ExpenseAccount returns the first category with an expense route, or the default expense account.
func (m *Mapping) ExpenseAccount(categories []string) string {
	return firstRoute(m.expense, categories, m.defaultExpense)
}

// IncomeAccount returns the first category with an income route, or the default income account.
func (m *Mapping) IncomeAccount(categories []string) string {
	return firstRoute(m.income, categories, m.defaultIncome)
}

// RefundAccount is the income account credited by non-payment refunds on liability accounts.
func (m *Mapping) RefundAccount() string { return m.refundIncome }

// PaymentCashAccount is the preferred linked cash account for funding liability payments when an item
// links more than one.
func (m *Mapping) PaymentCashAccount() string { return m.paymentCashAccount }

// PaymentRule returns the configured payment classification.
func (m *Mapping) PaymentRule() PaymentRule { return m.paymentRule }

// Codes returns every ledger account code the mapping can emit, sorted.
func (m *Mapping) Codes() []string {
	set := map[string]struct{}{
		m.defaultExpense:     {},
		m.defaultIncome:      {},
		m.refundIncome:       {},
		m.paymentCashAccount: {},
	}
	for _, r := range m.accounts {
		set[r.Code] = struct{}{}
	}
	for _, c := range m.expense {
		set[c] = struct{}{}
	}
	for _, c := range m.income {
		set[c] = struct{}{}
	}
	codes := make([]string, 0, len(set))
	for c := range set {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func firstRoute(routes map[string]string, categories []string, fallback string) string {
	for _, c := range categories {
		if code, ok := routes[c]; ok {
			return code
		}
	}
	return fallback
}
