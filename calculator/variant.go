package calculator

// Variant is the kind of document being billed. It only changes wording;
// every variant is computed the same way.
type Variant string

const (
	Sales          Variant = "sales"
	Purchase       Variant = "purchase"
	SalesReturn    Variant = "sales_return"
	PurchaseReturn Variant = "purchase_return"
)

// Variants lists every supported variant.
var Variants = []Variant{Sales, Purchase, SalesReturn, PurchaseReturn}

func (v Variant) Valid() bool {
	switch v {
	case Sales, Purchase, SalesReturn, PurchaseReturn:
		return true
	}
	return false
}

func (v Variant) IsReturn() bool {
	return v == SalesReturn || v == PurchaseReturn
}

// SettledField is the JSON key the settled amount is saved under.
func (v Variant) SettledField() string {
	switch v {
	case Purchase:
		return "amountPaid"
	case SalesReturn, PurchaseReturn:
		return "amountRefunded"
	default:
		return "amountReceived"
	}
}

// SettledLabel is the form label of the settled amount.
func (v Variant) SettledLabel() string {
	switch v {
	case Purchase:
		return "Amount Paid"
	case SalesReturn, PurchaseReturn:
		return "Amount Refunded"
	default:
		return "Amount Received"
	}
}

// Title is the document heading.
func (v Variant) Title() string {
	switch v {
	case Purchase:
		return "Purchase Invoice"
	case SalesReturn:
		return "Sales Return"
	case PurchaseReturn:
		return "Purchase Return"
	default:
		return "Sales Invoice"
	}
}

// NumberPrefix prefixes generated document numbers.
func (v Variant) NumberPrefix() string {
	switch v {
	case Purchase:
		return "PUR"
	case SalesReturn:
		return "SRN"
	case PurchaseReturn:
		return "PRN"
	default:
		return "INV"
	}
}
