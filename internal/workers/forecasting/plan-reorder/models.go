// internal/workers/forecasting/plan-reorder/models.go
package planreorder

type Input struct {
	StartDate    string      `json:"startDate,omitempty"` // YYYY-MM-DD
	WindowDays   int         `json:"windowDays"`
	LeadTimeDays int         `json:"leadTimeDays"`
	Items        []ItemInput `json:"items"`
}

type ItemInput struct {
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
	Supplier string `json:"supplier,omitempty"`

	// StartingInventory defaults to LastOrderQty when omitted.
	StartingInventory *float64   `json:"startingInventory,omitempty"`
	LastOrderQty      float64    `json:"lastOrderQty"`
	UnitCost          float64    `json:"unitCost"`
	DailyUsage        []float64  `json:"dailyUsage,omitempty"`
	SalesHistory      []float64  `json:"salesHistory,omitempty"`
	Deliveries        []Delivery `json:"deliveries,omitempty"`
}

type Delivery struct {
	Day      int     `json:"day"`
	Quantity float64 `json:"quantity"`
}

type PlannedOrder struct {
	Name          string  `json:"name"`
	Supplier      string  `json:"supplier"`
	Unit          string  `json:"unit,omitempty"`
	OrderDay      int     `json:"orderDay"`
	DeliveryDay   int     `json:"deliveryDay"`
	StockoutDay   int     `json:"stockoutDay"`
	OrderDate     string  `json:"orderDate,omitempty"`
	DeliveryDate  string  `json:"deliveryDate,omitempty"`
	StockoutDate  string  `json:"stockoutDate,omitempty"`
	Quantity      float64 `json:"quantity"`
	UnitCost      float64 `json:"unitCost"`
	EstimatedCost float64 `json:"estimatedCost"`
	Late          bool    `json:"late"`
}

type Output struct {
	WindowDays   int            `json:"windowDays"`
	LeadTimeDays int            `json:"leadTimeDays"`
	Orders       []PlannedOrder `json:"orders"`
	DynamicCost  float64        `json:"dynamicCost"`
	BaselineCost float64        `json:"baselineCost"`
	Savings      float64        `json:"savings"`
}
