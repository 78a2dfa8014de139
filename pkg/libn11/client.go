package libn11

import (
	"context"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Services exposed by n11.
const (
	CategoryService = "CategoryService"
	CityService     = "CityService"
	ProductService  = "ProductService"
)

type (
	// A Client defines all interactions that can be performed on the n11 SOAP services.
	// Every method returns the decoded response or an *N11Error.
	Client interface {
		// AppKey returns the API key.
		AppKey() string
		// SetAppKey sets the API key used by the next calls.
		SetAppKey(appKey string)
		// AppSecret returns the API secret.
		AppSecret() string
		// SetAppSecret sets the API secret used by the next calls.
		SetAppSecret(appSecret string)
		// Options returns a copy of the global options.
		Options() Options
		// SetOptions merges the given options over the current ones.
		SetOptions(options Options)

		// FetchCategories returns all the top level categories.
		FetchCategories(ctx context.Context) (map[string]any, error)
		// FetchSubCategories returns the sub categories of the given category.
		FetchSubCategories(ctx context.Context, categoryID int64) (map[string]any, error)
		// FetchCategoryAttributesWithValues returns the attributes of a category with their values.
		FetchCategoryAttributesWithValues(ctx context.Context, categoryID int64, currentPage int, pageSize ...int) (map[string]any, error)
		// FetchCategoryAttributeValue returns the values of a category attribute.
		FetchCategoryAttributeValue(ctx context.Context, categoryProductAttributeID int64, currentPage int, pageSize ...int) (map[string]any, error)
		// FetchParentCategory returns the parent of the given category.
		FetchParentCategory(ctx context.Context, categoryID int64) (map[string]any, error)
		// FetchCategoryAttributeList returns the attribute list of a category.
		FetchCategoryAttributeList(ctx context.Context, categoryID int64) (map[string]any, error)

		// FetchCities returns all the cities (unauthenticated).
		FetchCities(ctx context.Context) (map[string]any, error)
		// FetchCity returns a city by its code (unauthenticated).
		FetchCity(ctx context.Context, cityCode int) (map[string]any, error)
		// FetchDistricts returns the districts of a city (unauthenticated).
		FetchDistricts(ctx context.Context, cityCode int) (map[string]any, error)
		// FetchNeighborhoods returns the neighborhoods of a district (unauthenticated).
		FetchNeighborhoods(ctx context.Context, districtID int64) (map[string]any, error)

		// FetchProductList returns a page of the account's products.
		FetchProductList(ctx context.Context, currentPage int, pageSize ...int) (map[string]any, error)
		// FetchProductByID returns a product by its n11 identifier.
		FetchProductByID(ctx context.Context, productID int64) (map[string]any, error)
		// FetchProductBySellerCode returns a product by the merchant's own code.
		FetchProductBySellerCode(ctx context.Context, sellerCode string) (map[string]any, error)
		// SaveProduct creates or updates a product. See Product.Params for building data.
		SaveProduct(ctx context.Context, data *Params) (map[string]any, error)
		// DeleteProductByID deletes a product by its n11 identifier.
		DeleteProductByID(ctx context.Context, productID int64) (map[string]any, error)
		// DeleteProductBySellerCode deletes a product by the merchant's own code.
		DeleteProductBySellerCode(ctx context.Context, sellerCode string) (map[string]any, error)
	}

	client struct {
		sync.RWMutex
		appKey    string
		appSecret string
		options   Options

		endpoint string
		http     *http.Client
		logger   logrus.FieldLogger
		limiter  *rate.Limiter
		dialer   Dialer

		cmu     sync.Mutex
		callers map[string]Caller
	}
)

// New returns a new Client. The given options are merged over DefaultOptions.
func New(appKey, appSecret string, options Options, opts ...ClientOption) Client {
	c := &client{
		appKey:    appKey,
		appSecret: appSecret,
		options:   DefaultOptions().merge(options),
		endpoint:  DefaultEndpoint,
		http:      http.DefaultClient,
		logger:    logrus.StandardLogger(),
		callers:   map[string]Caller{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dialer == nil {
		c.dialer = NewDialer(c.http)
	}
	return c
}

func (c *client) AppKey() string {
	c.RLock()
	defer c.RUnlock()
	return c.appKey
}

func (c *client) SetAppKey(appKey string) {
	c.Lock()
	defer c.Unlock()
	c.appKey = appKey
}

func (c *client) AppSecret() string {
	c.RLock()
	defer c.RUnlock()
	return c.appSecret
}

func (c *client) SetAppSecret(appSecret string) {
	c.Lock()
	defer c.Unlock()
	c.appSecret = appSecret
}

func (c *client) Options() Options {
	c.RLock()
	defer c.RUnlock()
	return c.options.merge(nil)
}

func (c *client) SetOptions(options Options) {
	c.Lock()
	defer c.Unlock()
	c.options = c.options.merge(options)
}

//
// Categories
//

func (c *client) FetchCategories(ctx context.Context) (map[string]any, error) {
	return c.execute(ctx, CategoryService, "GetTopLevelCategories", NewParams())
}

func (c *client) FetchSubCategories(ctx context.Context, categoryID int64) (map[string]any, error) {
	return c.execute(ctx, CategoryService, "GetSubCategories", NewParams("categoryId", categoryID))
}

func (c *client) FetchCategoryAttributesWithValues(ctx context.Context, categoryID int64, currentPage int, pageSize ...int) (map[string]any, error) {
	params := NewParams(
		"categoryId", categoryID,
		"pagingData", pagingData(currentPage, pageSize),
	)
	return c.execute(ctx, CategoryService, "GetCategoryAttributes", params)
}

func (c *client) FetchCategoryAttributeValue(ctx context.Context, categoryProductAttributeID int64, currentPage int, pageSize ...int) (map[string]any, error) {
	params := NewParams(
		"categoryProductAttributeId", categoryProductAttributeID,
		"pagingData", pagingData(currentPage, pageSize),
	)
	return c.execute(ctx, CategoryService, "GetCategoryAttributeValue", params)
}

func (c *client) FetchParentCategory(ctx context.Context, categoryID int64) (map[string]any, error) {
	return c.execute(ctx, CategoryService, "GetParentCategory", NewParams("categoryId", categoryID))
}

func (c *client) FetchCategoryAttributeList(ctx context.Context, categoryID int64) (map[string]any, error) {
	return c.execute(ctx, CategoryService, "GetCategoryAttributesId", NewParams("categoryId", categoryID))
}

//
// Cities
//

func (c *client) FetchCities(ctx context.Context) (map[string]any, error) {
	return c.execute(ctx, CityService, "GetCities", NewParams(), withoutAuth)
}

func (c *client) FetchCity(ctx context.Context, cityCode int) (map[string]any, error) {
	return c.execute(ctx, CityService, "GetCity", NewParams("cityCode", cityCode), withoutAuth)
}

func (c *client) FetchDistricts(ctx context.Context, cityCode int) (map[string]any, error) {
	return c.execute(ctx, CityService, "GetDistrict", NewParams("cityCode", cityCode), withoutAuth)
}

func (c *client) FetchNeighborhoods(ctx context.Context, districtID int64) (map[string]any, error) {
	return c.execute(ctx, CityService, "GetNeighborhoods", NewParams("districtId", districtID), withoutAuth)
}

//
// Products
//

func (c *client) FetchProductList(ctx context.Context, currentPage int, pageSize ...int) (map[string]any, error) {
	params := NewParams("pagingData", pagingData(currentPage, pageSize))
	return c.execute(ctx, ProductService, "GetProductList", params)
}

func (c *client) FetchProductByID(ctx context.Context, productID int64) (map[string]any, error) {
	return c.execute(ctx, ProductService, "GetProductByProductId", NewParams("productId", productID))
}

func (c *client) FetchProductBySellerCode(ctx context.Context, sellerCode string) (map[string]any, error) {
	return c.execute(ctx, ProductService, "GetProductBySellerCode", NewParams("sellerCode", sellerCode))
}

func (c *client) SaveProduct(ctx context.Context, data *Params) (map[string]any, error) {
	if data == nil {
		data = NewParams()
	}
	return c.execute(ctx, ProductService, "SaveProduct", data)
}

func (c *client) DeleteProductByID(ctx context.Context, productID int64) (map[string]any, error) {
	return c.execute(ctx, ProductService, "DeleteProductById", NewParams("productId", productID))
}

func (c *client) DeleteProductBySellerCode(ctx context.Context, sellerCode string) (map[string]any, error) {
	return c.execute(ctx, ProductService, "DeleteProductBySellerCode", NewParams("productSellerCode", sellerCode))
}

func pagingData(currentPage int, pageSize []int) *Params {
	p := NewParams("currentPage", currentPage)
	if len(pageSize) > 0 {
		p.Set("pageSize", pageSize[0])
	}
	return p
}
