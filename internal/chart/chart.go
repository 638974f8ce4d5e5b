// Package chart holds the canonical chart of accounts shipped with the binary.
package chart

import (
	_ "embed"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed chart.yaml
var defaultChartYAML []byte

type chartFile struct {
	Currency string `yaml:"currency"`
	Accounts []struct {
		Code   string             `yaml:"code"`
		Name   string             `yaml:"name"`
		Type   domain.AccountType `yaml:"type"`
		IsCash bool               `yaml:"is_cash"`
	} `yaml:"accounts"`
}

// Default parses the embedded chart.
func Default() ([]domain.Account, error) {
	return Load(defaultChartYAML)
}

// Load parses a YAML chart. Codes must be unique and only asset accounts may be cash accounts.
func Load(data []byte) ([]domain.Account, error) {
	var f chartFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse chart: %w", err)
	}
	if f.Currency == "" {
		f.Currency = "USD"
	}

	seen := make(map[string]struct{}, len(f.Accounts))
	out := make([]domain.Account, 0, len(f.Accounts))
	for _, a := range f.Accounts {
		if a.Code == "" || a.Name == "" {
			return nil, fmt.Errorf("chart account requires code and name (code=%q)", a.Code)
		}
		if !a.Type.Valid() {
			return nil, fmt.Errorf("chart account %s: invalid type %q", a.Code, a.Type)
		}
		if a.IsCash && a.Type != domain.Asset {
			return nil, fmt.Errorf("chart account %s: only asset accounts can be cash", a.Code)
		}
		if _, dup := seen[a.Code]; dup {
			return nil, fmt.Errorf("chart account %s: duplicate code", a.Code)
		}
		seen[a.Code] = struct{}{}
		out = append(out, domain.Account{
			Code:         a.Code,
			Name:         a.Name,
			AccountType:  a.Type,
			IsCash:       a.IsCash,
			CurrencyCode: f.Currency,
		})
	}
	return out, nil
}

// MissingCodes returns the codes not present in accounts, in input order.
func MissingCodes(accounts []domain.Account, codes []string) []string {
	c := domain.NewChart(accounts)
	var missing []string
	for _, code := range codes {
		if _, ok := c.ByCode(code); !ok {
			missing = append(missing, code)
		}
	}
	return missing
}
