package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ItemKind distinguishes the two bill item variants.
type ItemKind int

const (
	// Shared items are divided evenly across every participant on the bill.
	Shared ItemKind = iota

	// Personal items are attributed entirely to one named participant.
	Personal
)

// BillItem is a single priced line on a bill.
// It is a tagged variant: a Personal item always carries the participant it
// belongs to, a Shared item never does. The custom JSON codec enforces this
// at the decode boundary so a person-less personal item cannot be built from
// input data.
type BillItem struct {
	// Price is the pre-tip cost of the item. Never negative.
	Price float64

	// Name is a human-readable label. Informational only; it does not
	// affect the split.
	Name string

	// Kind selects the variant.
	Kind ItemKind

	// Person is the participant a Personal item belongs to.
	// Empty for Shared items.
	Person string
}

type billItemJSON struct {
	Price    *float64 `json:"price"`
	Name     string   `json:"name"`
	IsShared bool     `json:"isShared"`
	Person   string   `json:"person,omitempty"`
}

// UnmarshalJSON decodes an item and validates the variant invariant:
// a personal item must name its person, and a shared item drops any
// person field it happens to carry.
func (it *BillItem) UnmarshalJSON(data []byte) error {
	var raw billItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Price == nil {
		return fmt.Errorf("item %q is missing required field 'price'", raw.Name)
	}
	if *raw.Price < 0 {
		return fmt.Errorf("item %q has negative price %v", raw.Name, *raw.Price)
	}

	it.Price = *raw.Price
	it.Name = raw.Name
	if raw.IsShared {
		it.Kind = Shared
		it.Person = ""
		return nil
	}
	if raw.Person == "" {
		return fmt.Errorf("personal item %q does not name a person", raw.Name)
	}
	it.Kind = Personal
	it.Person = raw.Person
	return nil
}

// MarshalJSON renders the item back in its wire shape.
func (it BillItem) MarshalJSON() ([]byte, error) {
	price := it.Price
	raw := billItemJSON{
		Price:    &price,
		Name:     it.Name,
		IsShared: it.Kind == Shared,
	}
	if it.Kind == Personal {
		raw.Person = it.Person
	}
	return json.Marshal(raw)
}

// BillInput is one normalized bill record, the input to the splitting engine.
type BillInput struct {
	// Date is the bill date as an ISO calendar date string (YYYY-MM-DD).
	Date string

	// Location is free text describing where the meal happened.
	Location string

	// TipPercentage is the tip in percentage units (15 means 15%).
	// Never negative.
	TipPercentage float64

	// Items are the bill lines in document order. The order does not
	// change the result but is preserved for traceability.
	Items []BillItem
}

// BillOutput is the computed split for one bill.
type BillOutput struct {
	// Date is the localized display form of the input date.
	Date string `json:"date"`

	// Location is copied through from the input.
	Location string `json:"location"`

	// SubTotal is the sum of all item prices.
	SubTotal float64 `json:"subTotal"`

	// Tip is the tip on the whole bill, rounded to a tenth.
	Tip float64 `json:"tip"`

	// TotalAmount is SubTotal plus Tip.
	TotalAmount float64 `json:"totalAmount"`

	// Items holds one entry per distinct participant, in the order the
	// participants first appear on the bill. After reconciliation their
	// amounts sum to TotalAmount within the rounding unit.
	Items []PersonItem `json:"items"`
}

// PersonItem is one participant's owed share.
type PersonItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// ParseBill decodes and validates a raw bill document.
// date, location and items are required top-level fields; their absence is a
// fatal input error, never defaulted.
func ParseBill(data []byte) (BillInput, error) {
	var raw struct {
		Date          *string     `json:"date"`
		Location      *string     `json:"location"`
		TipPercentage float64     `json:"tipPercentage"`
		Items         *[]BillItem `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return BillInput{}, fmt.Errorf("decode bill: %w", err)
	}

	if raw.Date == nil {
		return BillInput{}, errors.New("bill is missing required field 'date'")
	}
	if raw.Location == nil {
		return BillInput{}, errors.New("bill is missing required field 'location'")
	}
	if raw.Items == nil {
		return BillInput{}, errors.New("bill is missing required field 'items'")
	}
	if raw.TipPercentage < 0 {
		return BillInput{}, fmt.Errorf("tipPercentage must not be negative, got %v", raw.TipPercentage)
	}

	return BillInput{
		Date:          *raw.Date,
		Location:      *raw.Location,
		TipPercentage: raw.TipPercentage,
		Items:         *raw.Items,
	}, nil
}
