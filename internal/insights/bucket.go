package insights

import "strings"

// BucketKind identifies one of the four metric buckets a category can
// contribute to
type BucketKind int

const (
	BucketIncome BucketKind = iota
	BucketExpense
	BucketSavings
	BucketInvestment
)

var bucketOrder = []BucketKind{BucketIncome, BucketExpense, BucketSavings, BucketInvestment}

var bucketKeywords = map[BucketKind]string{
	BucketIncome:     "income",
	BucketExpense:    "expense",
	BucketSavings:    "savings",
	BucketInvestment: "investment",
}

// Buckets returns every metrics bucket whose keyword the category name
// contains, matched case-insensitively. Each keyword is tested independently,
// so a name like "Investment Savings" contributes to both the savings and
// investment buckets. Names matching no keyword return an empty slice and
// contribute to no bucket.
//
// This is a naming heuristic, not a schema: categories carry no explicit kind.
func Buckets(name string) []BucketKind {
	lower := strings.ToLower(name)
	var kinds []BucketKind
	for _, kind := range bucketOrder {
		if strings.Contains(lower, bucketKeywords[kind]) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
