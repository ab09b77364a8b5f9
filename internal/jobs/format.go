package jobs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/dealflow/internal/model"
	"github.com/ppiankov/dealflow/internal/normalize"
)

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fundingText renders a funding total as "$1,234,567" or "No funding"
func fundingText(total float64) string {
	if total <= 0 {
		return "No funding"
	}
	digits := strconv.FormatFloat(total, 'f', 0, 64)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}

func headcountText(c *model.Company) string {
	switch {
	case c.Headcount.Set && c.Headcount.Value != 0:
		return number(c.Headcount.Value)
	case c.CorrectedHeadcount.Set && c.CorrectedHeadcount.Value != 0:
		return number(c.CorrectedHeadcount.Value)
	}
	return ""
}

// growthText renders an absolute change, "+N" when positive
func growthText(change float64) string {
	if change > 0 {
		return fmt.Sprintf("+%.0f", change)
	}
	return number(change)
}

// percentText renders a percent change as "+12%", empty when zero
func percentText(pct float64) string {
	if pct == 0 {
		return ""
	}
	return fmt.Sprintf("%+.0f%%", pct)
}

func metricText(v float64) string {
	if v == 0 {
		return ""
	}
	return number(v)
}

func foundedText(fd model.FoundingDate) string {
	switch {
	case fd.Year == 0:
		return ""
	case fd.Month > 0:
		return fmt.Sprintf("%d/%d", fd.Month, fd.Year)
	default:
		return strconv.Itoa(fd.Year)
	}
}

func tagsText(c *model.Company, limit int) string {
	var out []string
	for i, t := range c.Tags {
		if i >= limit {
			break
		}
		out = append(out, t.DisplayValue)
	}
	return strings.Join(out, ", ")
}

func highlightsText(hs []model.Highlight, limit int) string {
	var out []string
	for i, h := range hs {
		if i >= limit {
			break
		}
		out = append(out, h.Category)
	}
	return strings.Join(out, ", ")
}

func descriptionText(c *model.Company) string {
	d := c.Description
	if d == "" {
		d = c.ShortDescription
	}
	r := []rune(d)
	if len(r) > 200 {
		return string(r[:200])
	}
	return d
}

// companyDomain returns the bare website domain of a company
func companyDomain(c *model.Company) string {
	if c.Website.Domain != "" {
		return normalize.Domain(c.Website.Domain)
	}
	return normalize.DomainFromURL(c.Website.URL)
}

// leadDomain prefers the row's domain column and falls back to the email
func leadDomain(l model.Lead) string {
	if l.Domain != "" {
		return normalize.Domain(l.Domain)
	}
	return normalize.DomainFromEmail(l.Email)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
