package pypi

import (
	"strings"

	"github.com/pkgscout/pkgscout/pkg/versions"
)

// SpecifierAdmits reports whether a python-requirement specifier set (e.g.
// ">=2.7,!=3.0.*") admits the candidate version. Clauses with
// non-comparable operands are skipped rather than failing the whole set,
// mirroring how the registry treats malformed specifiers.
//
// The python-3 support signal is derived as SpecifierAdmits(spec, "3").
func SpecifierAdmits(spec, candidate string) bool {
	cand, ok := versions.Parse(candidate)
	if !ok {
		return false
	}

	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if !clauseAdmits(clause, cand, candidate) {
			return false
		}
	}
	return true
}

func clauseAdmits(clause string, cand versions.Parsed, raw string) bool {
	op := ""
	for _, candidate := range []string{"~=", "==", "!=", ">=", "<=", ">", "<"} {
		if strings.HasPrefix(clause, candidate) {
			op = candidate
			break
		}
	}
	operand := strings.TrimSpace(strings.TrimPrefix(clause, op))
	if op == "" {
		// Bare version means exact match.
		op = "=="
	}

	if wild, ok := strings.CutSuffix(operand, ".*"); ok && (op == "==" || op == "!=") {
		match := wild == raw || strings.HasPrefix(raw, wild+".")
		if op == "==" {
			return match
		}
		return !match
	}

	other, ok := versions.Parse(operand)
	if !ok {
		return true
	}
	cmp := versions.Compare(cand, other)
	switch op {
	case "==":
		return cmp == 0
	case "!=":
		return cmp != 0
	case ">":
		return cmp > 0
	case ">=", "~=":
		return cmp >= 0
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	}
	return true
}
