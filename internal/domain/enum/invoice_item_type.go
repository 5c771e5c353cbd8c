package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceItemType classifies a single invoice line
type InvoiceItemType int

const (
	InvoiceItemTypeService      InvoiceItemType = 0
	InvoiceItemTypeProduct      InvoiceItemType = 1
	InvoiceItemTypeSubscription InvoiceItemType = 2
	InvoiceItemTypeDiscount     InvoiceItemType = 3
	InvoiceItemTypeFee          InvoiceItemType = 4
)

func (t InvoiceItemType) String() string {
	names := [...]string{"Service", "Product", "Subscription", "Discount", "Fee"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Service"
	}
	return names[t]
}

func (t InvoiceItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *InvoiceItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = InvoiceItemType(i)
		return nil
	}
	switch str {
	case "Service":
		*t = InvoiceItemTypeService
	case "Product":
		*t = InvoiceItemTypeProduct
	case "Subscription":
		*t = InvoiceItemTypeSubscription
	case "Discount":
		*t = InvoiceItemTypeDiscount
	case "Fee":
		*t = InvoiceItemTypeFee
	}
	return nil
}

func (t InvoiceItemType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *InvoiceItemType) Scan(value interface{}) error {
	if value == nil {
		*t = InvoiceItemTypeService
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = InvoiceItemType(v)
	case int:
		*t = InvoiceItemType(v)
	}
	return nil
}
