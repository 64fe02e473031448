package scrape

import "github.com/resumatch/resumatch/internal/models"

// Dedupe collapses postings to one entry per company. The surviving
// entry for a company is the last one seen; result order follows each
// company's first appearance. Results are truncated to max when max > 0.
//
// Collapsing distinct roles at the same employer is deliberate noise
// reduction inherited from the product behavior, not a data constraint.
func Dedupe(in []models.Posting, max int) []models.Posting {
	byCompany := make(map[string]models.Posting, len(in))
	order := make([]string, 0, len(in))

	for _, p := range in {
		if _, seen := byCompany[p.Company]; !seen {
			order = append(order, p.Company)
		}
		byCompany[p.Company] = p
	}

	out := make([]models.Posting, 0, len(order))
	for _, company := range order {
		out = append(out, byCompany[company])
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
