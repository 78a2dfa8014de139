package libn11_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/beevik/etree"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/encoding/charmap"
)

const categoryWSDL = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/" xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/" xmlns:sch="http://www.n11.com/ws/schemas" xmlns:tns="http://www.n11.com/ws/schemas" targetNamespace="http://www.n11.com/ws/schemas">
  <wsdl:message name="GetTopLevelCategoriesRequest">
    <wsdl:part element="sch:GetTopLevelCategoriesRequest" name="GetTopLevelCategoriesRequest"/>
  </wsdl:message>
  <wsdl:message name="GetTopLevelCategoriesResponse">
    <wsdl:part element="sch:GetTopLevelCategoriesResponse" name="GetTopLevelCategoriesResponse"/>
  </wsdl:message>
  <wsdl:message name="GetSubCategoriesRequest">
    <wsdl:part element="sch:GetSubCategoriesRequest" name="GetSubCategoriesRequest"/>
  </wsdl:message>
  <wsdl:portType name="CategoryServicePort">
    <wsdl:operation name="GetTopLevelCategories">
      <wsdl:input message="tns:GetTopLevelCategoriesRequest" name="GetTopLevelCategoriesRequest"/>
      <wsdl:output message="tns:GetTopLevelCategoriesResponse" name="GetTopLevelCategoriesResponse"/>
    </wsdl:operation>
    <wsdl:operation name="GetSubCategories">
      <wsdl:input message="tns:GetSubCategoriesRequest" name="GetSubCategoriesRequest"/>
    </wsdl:operation>
  </wsdl:portType>
  <wsdl:binding name="CategoryServicePortSoap11" type="tns:CategoryServicePort">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
    <wsdl:operation name="GetTopLevelCategories">
      <soap:operation soapAction="urn:GetTopLevelCategories"/>
    </wsdl:operation>
    <wsdl:operation name="GetSubCategories">
      <soap:operation soapAction=""/>
    </wsdl:operation>
  </wsdl:binding>
  <wsdl:service name="CategoryServicePortService">
    <wsdl:port binding="tns:CategoryServicePortSoap11" name="CategoryServicePortSoap11">
      <soap:address location="%s"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>`

const categoriesResponse = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
  <SOAP-ENV:Header/>
  <SOAP-ENV:Body>
    <ns3:GetTopLevelCategoriesResponse xmlns:ns3="http://www.n11.com/ws/schemas">
      <result><status>success</status></result>
      <categoryList>
        <category><id>1000476</id><name>Kitap</name></category>
        <category><id>1000722</id><name>Kadın Giyim</name></category>
      </categoryList>
    </ns3:GetTopLevelCategoriesResponse>
  </SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

const forbiddenResponse = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
  <SOAP-ENV:Header/>
  <SOAP-ENV:Body>
    <SOAP-ENV:Fault>
      <faultcode>SOAP-ENV:Server</faultcode>
      <faultstring xml:lang="en">Forbidden</faultstring>
    </SOAP-ENV:Fault>
  </SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

// server is a fake n11 CategoryService.
type server struct {
	sync.Mutex
	*httptest.Server

	action  string
	request *etree.Document
}

func newServer(t *testing.T) *server {
	s := &server{}

	engine := echo.New()
	engine.HideBanner = true

	engine.GET("/ws/CategoryService.wsdl", func(c echo.Context) error {
		location := fmt.Sprintf("http://%s/ws/CategoryService/", c.Request().Host)
		return c.Blob(http.StatusOK, "text/xml; charset=utf-8", []byte(fmt.Sprintf(categoryWSDL, location)))
	})

	engine.POST("/ws/CategoryService/", func(c echo.Context) error {
		payload, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}

		doc := etree.NewDocument()
		if err = doc.ReadFromBytes(payload); err != nil {
			return err
		}

		s.Lock()
		s.action = c.Request().Header.Get("SOAPAction")
		s.request = doc
		s.Unlock()

		operation := doc.FindElement("./Envelope/Body/*")
		switch operation.Tag {
		case "GetTopLevelCategoriesRequest":
			return c.Blob(http.StatusOK, "text/xml; charset=utf-8", []byte(categoriesResponse))
		case "GetSubCategoriesRequest":
			return c.Blob(http.StatusInternalServerError, "text/xml; charset=utf-8", []byte(forbiddenResponse))
		}
		return c.String(http.StatusBadGateway, "unexpected operation")
	})

	s.Server = httptest.NewServer(engine)
	t.Cleanup(s.Close)
	return s
}

func (s *server) client(options libn11.Options) libn11.Client {
	return libn11.New("key", "secret", options,
		libn11.WithEndpoint(s.URL+"/ws"),
		libn11.WithHTTPClient(s.Client()),
		libn11.WithLogger(quiet()),
	)
}

func TestSOAP_FetchCategories(t *testing.T) {
	s := newServer(t)
	client := s.client(libn11.Options{libn11.OptionAsArray: true})

	response, err := client.FetchCategories(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{
		"result": map[string]any{"status": "success"},
		"categoryList": map[string]any{
			"category": []any{
				map[string]any{"id": "1000476", "name": "Kitap"},
				map[string]any{"id": "1000722", "name": "Kadın Giyim"},
			},
		},
	}, response)

	s.Lock()
	defer s.Unlock()

	assert.Equal(t, `"urn:GetTopLevelCategories"`, s.action)

	request := s.request.FindElement("./Envelope/Body/GetTopLevelCategoriesRequest")
	if assert.NotNil(t, request) {
		assert.Equal(t, "http://www.n11.com/ws/schemas", request.NamespaceURI())
		assert.Equal(t, "key", request.FindElement("./auth/appKey").Text())
		assert.Equal(t, "secret", request.FindElement("./auth/appSecret").Text())
	}
}

func TestSOAP_Forbidden(t *testing.T) {
	s := newServer(t)
	client := s.client(nil)

	_, err := client.FetchSubCategories(context.Background(), 1000476)

	var n11err *libn11.N11Error
	assert.True(t, errors.As(err, &n11err))
	assert.Equal(t, "unauthorized access", n11err.Message)
	assert.Equal(t, "SOAP-ENV:Server", n11err.Code)
	assert.Equal(t, "Forbidden", errors.Cause(err).Error())

	s.Lock()
	defer s.Unlock()

	assert.Equal(t, `""`, s.action)
	request := s.request.FindElement("./Envelope/Body/GetSubCategoriesRequest")
	if assert.NotNil(t, request) {
		var tags []string
		for _, child := range request.ChildElements() {
			tags = append(tags, child.Tag)
		}
		assert.Equal(t, []string{"auth", "categoryId"}, tags)
		assert.Equal(t, "1000476", request.SelectElement("categoryId").Text())
	}
}

func TestSOAP_MissingWSDL(t *testing.T) {
	s := newServer(t)
	client := s.client(nil)

	_, err := client.FetchProductList(context.Background(), 0)

	var n11err *libn11.N11Error
	assert.True(t, errors.As(err, &n11err))
	assert.True(t, strings.HasPrefix(n11err.Message, "could not create SOAP client: could not fetch WSDL: 404"), n11err.Message)
}

func TestDefinition(t *testing.T) {
	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(fmt.Sprintf(categoryWSDL, "https://api.n11.com/ws/CategoryService/")))

	namespace, location, operations, err := libn11.Definition(doc, "https://api.n11.com/ws/CategoryService.wsdl")
	assert.NoError(t, err)
	assert.Equal(t, "http://www.n11.com/ws/schemas", namespace)
	assert.Equal(t, "https://api.n11.com/ws/CategoryService/", location)
	assert.Equal(t, map[string][3]string{
		"GetTopLevelCategories": {"http://www.n11.com/ws/schemas", "GetTopLevelCategoriesRequest", "urn:GetTopLevelCategories"},
		"GetSubCategories":      {"http://www.n11.com/ws/schemas", "GetSubCategoriesRequest", ""},
	}, operations)

	//

	doc = etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(`<definitions targetNamespace="urn:x"/>`))
	_, location, operations, err = libn11.Definition(doc, "https://api.n11.com/ws/CityService.wsdl")
	assert.NoError(t, err)
	assert.Equal(t, "https://api.n11.com/ws/CityService", location)
	assert.Empty(t, operations)

	doc = etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(`<html/>`))
	_, _, _, err = libn11.Definition(doc, "")
	assert.EqualError(t, err, "not a WSDL document")
}

func TestEnvelope(t *testing.T) {
	params := libn11.NewParams(
		"auth", libn11.NewParams("appKey", "key", "appSecret", "secret"),
		"product", libn11.NewParams(
			"title", "Örnek Başlık",
			"price", decimal.RequireFromString("99.90"),
			"domestic", true,
			"discount", nil,
			"images", libn11.NewParams(
				"image", []any{
					libn11.NewParams("url", "https://example.com/1.jpg", "order", 1),
					libn11.NewParams("url", "https://example.com/2.jpg", "order", 2),
				},
			),
			"codes", []string{"a", "b"},
			"extra", map[string]any{"z": 1, "a": 2.5},
		),
	)

	doc := libn11.Envelope("http://www.n11.com/ws/schemas", "SaveProductRequest", params)
	xml, err := doc.WriteToString()
	assert.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:sch="http://www.n11.com/ws/schemas">`,
		`<soapenv:Header/>`,
		`<soapenv:Body>`,
		`<sch:SaveProductRequest>`,
		`<auth><appKey>key</appKey><appSecret>secret</appSecret></auth>`,
		`<product>`,
		`<title>Örnek Başlık</title>`,
		`<price>99.9</price>`,
		`<domestic>true</domestic>`,
		`<images>`,
		`<image><url>https://example.com/1.jpg</url><order>1</order></image>`,
		`<image><url>https://example.com/2.jpg</url><order>2</order></image>`,
		`</images>`,
		`<codes>a</codes><codes>b</codes>`,
		`<extra><a>2.5</a><z>1</z></extra>`,
		`</product>`,
		`</sch:SaveProductRequest>`,
		`</soapenv:Body>`,
		`</soapenv:Envelope>`,
	}, ""), xml)
}

func TestEnvelope_TypedValues(t *testing.T) {
	type category struct {
		ID   int64  `json:"id"`
		Name string `json:"name,omitempty"`
	}

	params := libn11.NewParams(
		"labels", map[string]string{"b": "2", "a": "1"},
		"category", category{ID: 1000476},
		"parent", &category{ID: 1, Name: "Kitap"},
	)

	doc := libn11.Envelope("http://www.n11.com/ws/schemas", "SaveProductRequest", params)
	xml, err := doc.WriteToString()
	assert.NoError(t, err)

	assert.Contains(t, xml, strings.Join([]string{
		`<sch:SaveProductRequest>`,
		`<labels><a>1</a><b>2</b></labels>`,
		`<category><id>1000476</id></category>`,
		`<parent><id>1</id><name>Kitap</name></parent>`,
		`</sch:SaveProductRequest>`,
	}, ""))
}

func TestDecodeEnvelope(t *testing.T) {
	doc := etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(`<?xml version="1.0" encoding="UTF-8"?>
<env:Envelope xmlns:env="http://schemas.xmlsoap.org/soap/envelope/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <env:Body>
    <ns3:GetCitiesResponse xmlns:ns3="http://www.n11.com/ws/schemas">
      <cities>
        <city><cityCode>34</cityCode><cityName>İstanbul</cityName><cityId xsi:nil="true"/></city>
      </cities>
      <empty/>
    </ns3:GetCitiesResponse>
  </env:Body>
</env:Envelope>`))

	r, err := libn11.DecodeEnvelope(doc)
	assert.NoError(t, err)
	assert.Equal(t, []string{"cities", "empty"}, r.Keys())
	assert.Equal(t, map[string]any{
		"cities": map[string]any{
			"city": map[string]any{"cityCode": "34", "cityName": "İstanbul", "cityId": nil},
		},
		"empty": "",
	}, r.Map())

	//

	doc = etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(forbiddenResponse))
	_, err = libn11.DecodeEnvelope(doc)
	assert.Equal(t, &libn11.Fault{Code: "SOAP-ENV:Server", String: "Forbidden"}, err)

	doc = etree.NewDocument()
	assert.NoError(t, doc.ReadFromString(`<html><body/></html>`))
	_, err = libn11.DecodeEnvelope(doc)
	assert.EqualError(t, err, "no SOAP body found")
}

func TestDecodeEnvelope_Charset(t *testing.T) {
	body, err := charmap.ISO8859_9.NewEncoder().String(`<?xml version="1.0" encoding="ISO-8859-9"?>
<env:Envelope xmlns:env="http://schemas.xmlsoap.org/soap/envelope/">
  <env:Body><GetCityResponse><city><cityName>İstanbul</cityName></city></GetCityResponse></env:Body>
</env:Envelope>`)
	assert.NoError(t, err)

	engine := echo.New()
	engine.HideBanner = true
	engine.GET("/ws/CityService.wsdl", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "text/xml", []byte(`<definitions targetNamespace="http://www.n11.com/ws/schemas"/>`))
	})
	engine.POST("/ws/CityService", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "text/xml; charset=ISO-8859-9", []byte(body))
	})
	s := httptest.NewServer(engine)
	defer s.Close()

	client := libn11.New("", "", libn11.Options{libn11.OptionAsArray: true},
		libn11.WithEndpoint(s.URL+"/ws"),
		libn11.WithHTTPClient(s.Client()),
		libn11.WithLogger(quiet()),
	)

	response, err := client.FetchCity(context.Background(), 34)
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"city": map[string]any{"cityName": "İstanbul"}}, response)
}
