package notify

import (
	"fmt"
	"strings"
)

// SummarySubject is the fixed subject line for the weekly summary.
const SummarySubject = "New suspended businesses this week"

// ComposeSummary renders the weekly summary as channel-agnostic plain text.
// Every city in cityOrder is listed with its count, zero included, in the
// configured order. Cities absent from counts default to 0.
func ComposeSummary(cityOrder []string, counts map[string]int, sheetLink string) (subject, body string) {
	var b strings.Builder
	b.WriteString("Hey team,\n\n")
	b.WriteString("Here's how many new businesses we've found in each city:\n\n")
	for _, city := range cityOrder {
		fmt.Fprintf(&b, "- %d in %s\n", counts[city], city)
	}
	fmt.Fprintf(&b, "\nCheck out the details in this sheet: %s\n", sheetLink)
	return SummarySubject, b.String()
}
