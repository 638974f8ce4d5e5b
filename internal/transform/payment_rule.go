package transform

import (
	"fmt"
	"strings"
)

// PaymentRule decides whether a negative amount on a liability account is a payment (funded from cash)
// rather than a refund. Categories are already normalized, most specific first.
//
// Revisions of the source system disagree on whether payments are matched by an explicit category
// list or by a substring of the category, so both are selectable via payments.rule.mode.
type PaymentRule interface {
	IsPayment(categories []string) bool
	Mode() string
}

const (
	ModeCategoryList      = "category_list"
	ModeCategorySubstring = "category_substring"
)

// NewPaymentRule builds the rule named by mode. An empty mode selects the category list.
func NewPaymentRule(mode string, categories, substrings []string) (PaymentRule, error) {
	switch mode {
	case "", ModeCategoryList:
		if len(categories) == 0 {
			return nil, fmt.Errorf("payment rule %s needs at least one category", ModeCategoryList)
		}
		return NewCategoryListRule(categories...), nil
	case ModeCategorySubstring:
		if len(substrings) == 0 {
			return nil, fmt.Errorf("payment rule %s needs at least one substring", ModeCategorySubstring)
		}
		return NewCategorySubstringRule(substrings...), nil
	}
	return nil, fmt.Errorf("unknown payment rule mode %q", mode)
}

// CategoryListRule matches categories exactly against a fixed set.
type CategoryListRule struct {
	set map[string]struct{}
}

func NewCategoryListRule(categories ...string) CategoryListRule {
	r := CategoryListRule{set: make(map[string]struct{}, len(categories))}
	for _, c := range categories {
		r.set[Normalize(c)] = struct{}{}
	}
	return r
}

func (r CategoryListRule) IsPayment(categories []string) bool {
	for _, c := range categories {
		if _, ok := r.set[c]; ok {
			return true
		}
	}
	return false
}

func (CategoryListRule) Mode() string { return ModeCategoryList }

// CategorySubstringRule matches when any category contains any of the substrings.
type CategorySubstringRule struct {
	substrings []string
}

func NewCategorySubstringRule(substrings ...string) CategorySubstringRule {
	r := CategorySubstringRule{substrings: make([]string, 0, len(substrings))}
	for _, s := range substrings {
		r.substrings = append(r.substrings, Normalize(s))
	}
	return r
}

func (r CategorySubstringRule) IsPayment(categories []string) bool {
	for _, c := range categories {
		for _, s := range r.substrings {
			if s != "" && strings.Contains(c, s) {
				return true
			}
		}
	}
	return false
}

func (CategorySubstringRule) Mode() string { return ModeCategorySubstring }
