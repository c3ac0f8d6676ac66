package services

import (
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/restaurant-pos/models"
)

// MenuGroup is one instance of a bundled menu inside an order.
type MenuGroup struct {
	Key             string             `json:"key"`
	MenuID          string             `json:"menu_id"`
	MenuName        string             `json:"menu_name"`
	SecondaryID     string             `json:"secondary_id"`
	BasePrice       float64            `json:"base_price"`
	TaxPerUnit      float64            `json:"tax_per_unit"`
	SupplementTotal float64            `json:"supplement_total"`
	Quantity        int                `json:"quantity"`
	Subtotal        float64            `json:"subtotal"`
	Items           []models.OrderItem `json:"items"`
}

// OrderSummary is the breakdown shown on the order summary screen.
type OrderSummary struct {
	Total        float64            `json:"total"`
	NonMenuItems []models.OrderItem `json:"non_menu_items"`
	Groups       []MenuGroup        `json:"groups"`
}

type menuGroupKey struct {
	menuID      string
	secondaryID string
}

type menuGroupAcc struct {
	group      MenuGroup
	base       decimal.Decimal
	tax        decimal.Decimal
	supplement decimal.Decimal
}

// CalculateOrderTotal returns the amount due for a list of order lines.
func CalculateOrderTotal(items []models.OrderItem) float64 {
	return SummarizeOrderItems(items).Total
}

// SummarizeOrderItems partitions the lines into standalone items and menu
// groups and totals them. Lines sharing (menuId, menuSecondaryId) form a
// group: base price, tax and quantity come from the first line, every line
// adds its own supplement. Standalone lines contribute TotalPrice as is.
func SummarizeOrderItems(items []models.OrderItem) OrderSummary {
	summary := OrderSummary{
		NonMenuItems: []models.OrderItem{},
		Groups:       []MenuGroup{},
	}

	total := decimal.Zero
	index := make(map[menuGroupKey]int)
	accs := make([]*menuGroupAcc, 0)

	for _, item := range items {
		if !item.IsMenuItem() {
			summary.NonMenuItems = append(summary.NonMenuItems, item)
			total = total.Add(decimal.NewFromFloat(item.TotalPrice))
			continue
		}

		key := menuGroupKey{menuID: *item.MenuID, secondaryID: stringValue(item.MenuSecondaryID)}
		if i, ok := index[key]; ok {
			acc := accs[i]
			acc.supplement = acc.supplement.Add(decimalValue(item.Supplement))
			acc.group.Items = append(acc.group.Items, item)
			continue
		}

		index[key] = len(accs)
		accs = append(accs, &menuGroupAcc{
			group: MenuGroup{
				Key:         key.menuID + key.secondaryID,
				MenuID:      key.menuID,
				MenuName:    stringValue(item.MenuName),
				SecondaryID: key.secondaryID,
				Quantity:    item.Quantity,
				Items:       []models.OrderItem{item},
			},
			base:       decimalValue(item.MenuPrice),
			tax:        decimalValue(item.MenuTax),
			supplement: decimalValue(item.Supplement),
		})
	}

	for _, acc := range accs {
		subtotal := acc.base.Add(acc.tax).Add(acc.supplement).Mul(decimal.NewFromInt(int64(acc.group.Quantity)))
		total = total.Add(subtotal)

		g := acc.group
		g.BasePrice = acc.base.InexactFloat64()
		g.TaxPerUnit = acc.tax.InexactFloat64()
		g.SupplementTotal = acc.supplement.InexactFloat64()
		g.Subtotal = subtotal.InexactFloat64()
		summary.Groups = append(summary.Groups, g)
	}

	summary.Total = total.InexactFloat64()
	return summary
}

func decimalValue(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
