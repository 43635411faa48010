// Package calculator implements the bill splitting algorithm.
package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"warikan/internal/models"
)

// Split computes each participant's owed amount for one bill, including a
// proportional tip and a final reconciliation step so the per-person amounts
// sum exactly to the bill total.
//
// The function is pure: no I/O, no shared state, deterministic for identical
// input. The only error it can return is a malformed date.
func Split(in models.BillInput) (models.BillOutput, error) {
	date, err := formatDate(in.Date)
	if err != nil {
		return models.BillOutput{}, err
	}

	var subTotal float64
	for _, it := range in.Items {
		subTotal += it.Price
	}
	tip := roundTenth(subTotal * in.TipPercentage / 100)
	total := subTotal + tip

	// Only personal items introduce participants. A bill of nothing but
	// shared items therefore produces an empty breakdown even though the
	// total is non-zero; callers rely on this behavior.
	participants := discoverParticipants(in.Items)

	// Shared items are divided evenly across every participant, including
	// ones that ordered nothing of their own.
	var sharedPerHead float64
	if n := len(participants); n > 0 {
		for _, it := range in.Items {
			if it.Kind == models.Shared {
				sharedPerHead += it.Price / float64(n)
			}
		}
	}

	items := make([]models.PersonItem, 0, len(participants))
	var allocated float64
	for _, p := range participants {
		sub := sharedPerHead
		for _, it := range in.Items {
			if it.Kind == models.Personal && it.Person == p {
				sub += it.Price
			}
		}
		// Each person tips on their own subtotal; the global tip is
		// not divided up proportionally.
		amount := roundTenth(sub + roundTenth(sub*in.TipPercentage/100))
		allocated += amount
		items = append(items, models.PersonItem{Name: p, Amount: amount})
	}

	// Per-person rounding can leave the amounts a tenth or so away from
	// the bill total. The whole drift lands on the first-discovered
	// participant so the amounts sum to TotalAmount within the rounding
	// unit; no other participant is ever adjusted.
	if drift := roundTenth(total - allocated); drift != 0 && len(items) > 0 {
		items[0].Amount = roundTenth(items[0].Amount + drift)
	}

	return models.BillOutput{
		Date:        date,
		Location:    in.Location,
		SubTotal:    subTotal,
		Tip:         tip,
		TotalAmount: total,
		Items:       items,
	}, nil
}

// formatDate turns an ISO date string into its display form, e.g.
// "2024-03-01" -> "2024年3月1日". The components are only required to be
// integers; out-of-range months or days pass through untouched.
func formatDate(s string) (string, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed date %q: want YYYY-MM-DD", s)
	}
	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", fmt.Errorf("malformed date %q: %w", s, err)
		}
		ymd[i] = n
	}
	return fmt.Sprintf("%d年%d月%d日", ymd[0], ymd[1], ymd[2]), nil
}

// discoverParticipants returns the distinct persons named on personal items,
// in first-occurrence order.
func discoverParticipants(items []models.BillItem) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if it.Kind != models.Personal || seen[it.Person] {
			continue
		}
		seen[it.Person] = true
		out = append(out, it.Person)
	}
	return out
}

// roundTenth rounds to the nearest tenth, halves away from zero.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
