package checkout

// OrderIntent says whether the payment is captured immediately or authorized first.
type OrderIntent string

const (
	IntentCapture   OrderIntent = "CAPTURE"
	IntentAuthorize OrderIntent = "AUTHORIZE"
)

// UserAction controls the label of the buyer's final approval button.
type UserAction string

const (
	UserActionContinue UserAction = "CONTINUE"
	UserActionPayNow   UserAction = "PAY_NOW"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderSaved     OrderStatus = "SAVED"
	OrderApproved  OrderStatus = "APPROVED"
	OrderVoided    OrderStatus = "VOIDED"
	OrderCompleted OrderStatus = "COMPLETED"
)

// Amount is a decimal value in a currency, both as strings on the wire.
type Amount struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

// PurchaseUnitRequest is one item of an order.
type PurchaseUnitRequest struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description"`
}

// ApplicationContext customizes the buyer's checkout experience.
type ApplicationContext struct {
	BrandName  string     `json:"brand_name,omitempty"`
	Locale     string     `json:"locale,omitempty"`
	UserAction UserAction `json:"user_action"`
	ReturnURL  string     `json:"return_url,omitempty"`
	CancelURL  string     `json:"cancel_url,omitempty"`
}

// CreateOrder is the body of a create-order request. Zero Intent and
// UserAction default to IntentCapture and UserActionContinue.
type CreateOrder struct {
	Intent             OrderIntent           `json:"intent"`
	PurchaseUnits      []PurchaseUnitRequest `json:"purchase_units"`
	ApplicationContext ApplicationContext    `json:"application_context"`
}

// LinkDescription is a HATEOAS link returned with an order.
type LinkDescription struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// OrderDetails is the order representation returned by the API.
type OrderDetails struct {
	ID     string            `json:"id"`
	Status OrderStatus       `json:"status"`
	Links  []LinkDescription `json:"links"`
}

// Link returns the href of the first link with the given rel, e.g. "approve".
func (o *OrderDetails) Link(rel string) (string, bool) {
	for _, l := range o.Links {
		if l.Rel == rel {
			return l.Href, true
		}
	}
	return "", false
}

func (c CreateOrder) withDefaults() CreateOrder {
	if c.Intent == "" {
		c.Intent = IntentCapture
	}
	if c.ApplicationContext.UserAction == "" {
		c.ApplicationContext.UserAction = UserActionContinue
	}
	if c.PurchaseUnits == nil {
		c.PurchaseUnits = []PurchaseUnitRequest{}
	}
	return c
}
