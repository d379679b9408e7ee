package aging

import (
	"strings"

	"github.com/cleared-dev/ledgercore/internal/model"
)

// UnknownCustomer collects receivables no classifier could attribute.
const UnknownCustomer = "Unknown Customer"

// Classifier names the customer a receivables transaction belongs to.
type Classifier interface {
	Classify(tx model.Transaction) (customer string, ok bool)
}

// ClassifierFunc adapts a function to a Classifier.
type ClassifierFunc func(tx model.Transaction) (string, bool)

func (f ClassifierFunc) Classify(tx model.Transaction) (string, bool) {
	return f(tx)
}

// ContactClassifier uses the transaction's contact and falls back to Next
// when it is empty.
type ContactClassifier struct {
	Next Classifier
}

func (c ContactClassifier) Classify(tx model.Transaction) (string, bool) {
	if name := strings.TrimSpace(tx.Contact); name != "" {
		return name, true
	}
	if c.Next == nil {
		return "", false
	}
	return c.Next.Classify(tx)
}

// DescriptionClassifier guesses the customer from free text such as
// "Invoice to Acme Ltd - March" or "Payment from Acme Ltd". It takes the
// words after "to" or "from" (or, failing those, "for") up to the next such
// keyword or a separator. This is a heuristic; descriptions that do not
// follow the pattern are left unclassified.
type DescriptionClassifier struct{}

var (
	primaryKeywords = []string{"to", "from"}
	fallbackKeyword = []string{"for"}
	separators      = []string{" - ", "(", "#", ",", ";", ":"}
)

func isKeyword(w string) bool {
	switch strings.ToLower(w) {
	case "to", "from", "for":
		return true
	}
	return false
}

func (DescriptionClassifier) Classify(tx model.Transaction) (string, bool) {
	words := strings.Fields(tx.Description)
	for _, keys := range [][]string{primaryKeywords, fallbackKeyword} {
		if name := after(words, keys); name != "" {
			return name, true
		}
	}
	return "", false
}

func after(words, keys []string) string {
	for i, w := range words {
		if !containsFold(keys, w) {
			continue
		}
		var name []string
		for _, next := range words[i+1:] {
			if isKeyword(next) {
				break
			}
			name = append(name, next)
		}
		s := strings.Join(name, " ")
		for _, sep := range separators {
			if j := strings.Index(s, sep); j >= 0 {
				s = s[:j]
			}
		}
		if s = strings.Trim(s, " .-"); s != "" {
			return s
		}
	}
	return ""
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// DefaultClassifier prefers the contact and falls back to the description.
func DefaultClassifier() Classifier {
	return ContactClassifier{Next: DescriptionClassifier{}}
}
