package stageview

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
)

// Where the SOR side of a comparison came from
const (
	SourceEmbedded = "embedded"
	SourceLive     = "live"
)

// Comparison is one key present on both sides
type Comparison struct {
	Key       string `json:"key"`
	Field     string `json:"field"`
	Extracted string `json:"extracted"`
	SOR       string `json:"sor"`
	Match     bool   `json:"match"`
}

// SORView is the SOR Cross-check stage
type SORView struct {
	Source     string            `json:"source"`
	Rows       []Comparison      `json:"rows"`
	Mismatches int               `json:"mismatches"`
	Record     map[string]string `json:"record"`
}

// fieldAliases maps normalized extracted field names onto SOR keys.
var fieldAliases = map[string]string{
	"name":            "name",
	"fullname":        "name",
	"clientname":      "name",
	"accounttype":     "accountType",
	"dob":             "dob",
	"dateofbirth":     "dob",
	"birthdate":       "dob",
	"address":         "address",
	"clientaddress":   "address",
	"clientaddresses": "address",
	"income":          "income",
	"annualincome":    "income",
	"entityname":      "entityName",
	"entity":          "entityName",
	"complianceid":    "complianceId",
	"risktolerance":   "riskTolerance",
}

// SORKey resolves an extracted field name to the SOR attribute it
// describes, or "" when there is none.
func SORKey(fieldName string) string {
	return fieldAliases[normalizeKey(fieldName)]
}

// Compare lines extracted values up against a SOR record. Only keys found
// on both sides produce a row; rows come out in SOR key order. When the
// extraction has First Name and Last Name but no full name, the two are
// joined and compared as the name.
func Compare(extracted map[string]string, rec ticket.SORRecord) []Comparison {
	byKey := map[string]Comparison{}
	for field, value := range extracted {
		key := SORKey(field)
		if key == "" {
			continue
		}
		if prev, ok := byKey[key]; ok && prev.Field < field {
			continue
		}
		byKey[key] = Comparison{Key: key, Field: field, Extracted: value}
	}
	if _, ok := byKey["name"]; !ok {
		first, last := lookupFold(extracted, "First Name"), lookupFold(extracted, "Last Name")
		if first != "" && last != "" {
			byKey["name"] = Comparison{Key: "name", Field: "First Name + Last Name", Extracted: first + " " + last}
		}
	}

	sorFields := rec.Fields()
	out := make([]Comparison, 0, len(byKey))
	for key, c := range byKey {
		sv, ok := sorFields[key]
		if !ok {
			continue
		}
		c.SOR = sv
		c.Match = valuesEqualFor(key, c.Extracted, sv)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// moneyKeys are SOR attributes always compared as amounts.
var moneyKeys = map[string]bool{
	"income": true,
}

// ValuesEqual compares two values after collapsing whitespace and case.
// When either side is written as money ("$182,000", "1,200") both are
// compared as amounts. Bare numbers such as ids compare as text, so
// "00451" and "451" differ.
func ValuesEqual(a, b string) bool {
	return valuesEqualFor("", a, b)
}

func valuesEqualFor(key, a, b string) bool {
	if moneyKeys[key] || looksLikeMoney(a) || looksLikeMoney(b) {
		if da, ok := parseAmount(a); ok {
			if db, ok := parseAmount(b); ok {
				return da.Equal(db)
			}
		}
	}
	return normalizeValue(a) == normalizeValue(b)
}

func looksLikeMoney(s string) bool {
	return strings.ContainsAny(s, "$,")
}

func sorView(t ticket.Ticket, draft store.Draft, live *ticket.SORRecord) *SORView {
	rec, source := t.SOR, SourceEmbedded
	if live != nil {
		rec, source = *live, SourceLive
	}

	extracted := make(map[string]string, len(t.ExtractedFields))
	for _, f := range t.ExtractedFields {
		extracted[f.FieldName] = fieldRow(f, draft).Value
	}

	v := &SORView{
		Source: source,
		Rows:   Compare(extracted, rec),
		Record: rec.Fields(),
	}
	for _, r := range v.Rows {
		if !r.Match {
			v.Mismatches++
		}
	}
	return v
}

// parseAmount reads plain decimal notation only; exponents are not
// amounts.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.ContainsFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-'
	}) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func normalizeValue(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func lookupFold(m map[string]string, key string) string {
	want := normalizeKey(key)
	for k, v := range m {
		if normalizeKey(k) == want {
			return v
		}
	}
	return ""
}
