package libn11

import (
	"encoding"
	"reflect"

	"github.com/mdouchement/n11/pkg/structs"
	"github.com/shopspring/decimal"
)

// Approval statuses of a product.
const (
	ApprovalStatusActive             = "Active"
	ApprovalStatusWaitingForApproval = "WaitingForApproval"
)

// CurrencyTypeTL is the Turkish lira currency type.
const CurrencyTypeTL = 1

type (
	// A Product is the record sent to SaveProduct.
	// JSON names are the n11 field names.
	Product struct {
		ProductSellerCode string          `json:"productSellerCode"`
		Title             string          `json:"title"`
		Subtitle          string          `json:"subtitle,omitempty"`
		Description       string          `json:"description"`
		Category          Category        `json:"category"`
		Price             decimal.Decimal `json:"price"`
		Domestic          bool            `json:"domestic"`
		CurrencyType      int             `json:"currencyType"`
		Images            Images          `json:"images"`
		ApprovalStatus    string          `json:"approvalStatus,omitempty"`
		Attributes        Attributes      `json:"attributes"`
		SaleStartDate     *Date           `json:"saleStartDate,omitempty"`
		SaleEndDate       *Date           `json:"saleEndDate,omitempty"`
		ProductionDate    *Date           `json:"productionDate,omitempty"`
		ExpirationDate    *Date           `json:"expirationDate,omitempty"`
		ProductCondition  int             `json:"productCondition"`
		PreparingDay      int             `json:"preparingDay"`
		Discount          *Discount       `json:"discount,omitempty"`
		ShipmentTemplate  string          `json:"shipmentTemplate"`
		StockItems        StockItems      `json:"stockItems"`
		GroupAttribute    *string         `json:"groupAttribute,omitempty"`
		GroupItemCode     *string         `json:"groupItemCode,omitempty"`
		ItemName          *string         `json:"itemName,omitempty"`
	}

	// A Category references an n11 category.
	Category struct {
		ID int64 `json:"id"`
	}

	// Images is the image list of a product.
	Images struct {
		Image []Image `json:"image"`
	}

	// An Image is a product picture.
	Image struct {
		URL   string `json:"url"`
		Order int    `json:"order"`
	}

	// Attributes is a list of name/value attributes.
	Attributes struct {
		Attribute []Attribute `json:"attribute"`
	}

	// An Attribute is a category attribute value.
	Attribute struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	// A Discount is applied on the product price.
	Discount struct {
		StartDate *Date            `json:"startDate,omitempty"`
		EndDate   *Date            `json:"endDate,omitempty"`
		Type      *int             `json:"type,omitempty"`
		Value     *decimal.Decimal `json:"value,omitempty"`
	}

	// StockItems is the stock list of a product.
	StockItems struct {
		StockItem []StockItem `json:"stockItem"`
	}

	// A StockItem is a sellable variant of a product.
	StockItem struct {
		Quantity        int              `json:"quantity"`
		Gtin            string           `json:"gtin,omitempty"`
		SellerStockCode string           `json:"sellerStockCode"`
		N11CatalogID    *int64           `json:"n11CatalogId,omitempty"`
		Attributes      Attributes       `json:"attributes"`
		OptionPrice     *decimal.Decimal `json:"optionPrice,omitempty"`
	}
)

// Params returns the SaveProduct parameters of p: {product: {...}}.
func (p Product) Params() *Params {
	return NewParams("product", paramsOf(p))
}

// paramsOf converts structures into Params following their JSON names.
func paramsOf(v any) any {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		return paramsOf(rv.Elem().Interface())
	}

	if _, ok := v.(encoding.TextMarshaler); ok {
		return v
	}

	switch rv.Kind() {
	case reflect.Struct:
		params := NewParams()
		for _, field := range structs.Fields(v, "json") {
			value := paramsOf(field.Value)
			if field.OmitEmpty && empty(value) {
				continue
			}
			params.Set(field.Name, value)
		}
		return params
	case reflect.Slice, reflect.Array:
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = paramsOf(rv.Index(i).Interface())
		}
		return s
	default:
		return v
	}
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
