package libn11

import (
	"bytes"
	"context"
	"encoding"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

const (
	namespaceEnvelope = "http://schemas.xmlsoap.org/soap/envelope/"
	namespaceInstance = "http://www.w3.org/2001/XMLSchema-instance"
)

type (
	// A Caller performs operations described by a WSDL.
	// A SOAP fault is returned as a *Fault (possibly wrapped).
	Caller interface {
		Call(ctx context.Context, operation string, params *Params) (*Record, error)
	}

	// A Dialer returns a Caller bound to the given WSDL location.
	Dialer func(ctx context.Context, wsdl string) (Caller, error)

	soapCaller struct {
		http       *http.Client
		definition definition
	}
)

// NewDialer returns a Dialer that fetches and reads the WSDL with the given HTTP client.
func NewDialer(h *http.Client) Dialer {
	if h == nil {
		h = http.DefaultClient
	}

	return func(ctx context.Context, wsdl string) (Caller, error) {
		//
		// Build request
		req, err := http.NewRequest(http.MethodGet, wsdl, nil)
		if err != nil {
			return nil, errors.Wrap(err, "could not build request")
		}
		req = req.WithContext(ctx)
		req.Header.Add("Accept", "text/xml")

		//
		// Perform request
		res, err := h.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "could not fetch WSDL")
		}
		defer res.Body.Close()

		if res.StatusCode >= 400 {
			return nil, errors.Errorf("could not fetch WSDL: %s", res.Status)
		}

		//
		// Process response
		doc := newDocument()
		if _, err = doc.ReadFrom(res.Body); err != nil {
			return nil, errors.Wrap(err, "could not parse WSDL")
		}

		def, err := parseWSDL(doc, wsdl)
		if err != nil {
			return nil, errors.Wrap(err, "could not read WSDL")
		}

		return &soapCaller{http: h, definition: def}, nil
	}
}

func (c *soapCaller) Call(ctx context.Context, operation string, params *Params) (*Record, error) {
	op := c.definition.operation(operation)

	//
	// Build request
	body, err := envelope(op.input, params).WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize request")
	}

	req, err := http.NewRequest(http.MethodPost, c.definition.location, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req = req.WithContext(ctx)
	req.Header.Add("Content-Type", "text/xml; charset=utf-8")
	req.Header.Add("Accept", "text/xml")
	req.Header.Add("SOAPAction", strconv.Quote(op.action))

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	//
	// Process response
	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read response")
	}

	doc := newDocument()
	if err = doc.ReadFromBytes(payload); err != nil {
		if res.StatusCode >= 400 {
			return nil, errors.Errorf("unexpected response: %s", res.Status)
		}
		return nil, errors.Wrap(err, "could not parse response")
	}

	response, err := decodeEnvelope(doc)
	if err != nil {
		if res.StatusCode >= 400 && errors.Cause(err) == errNoEnvelope {
			return nil, errors.Errorf("unexpected response: %s", res.Status)
		}
		return nil, err
	}
	return response, nil
}

//
// Encoding
//

// envelope returns a SOAP 1.1 request for the given element.
// The request element is qualified, its children are not.
func envelope(input qname, params *Params) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	env := doc.CreateElement("soapenv:Envelope")
	env.CreateAttr("xmlns:soapenv", namespaceEnvelope)
	if input.space != "" {
		env.CreateAttr("xmlns:sch", input.space)
	}
	env.CreateElement("soapenv:Header")
	body := env.CreateElement("soapenv:Body")

	tag := input.local
	if input.space != "" {
		tag = "sch:" + tag
	}
	encodeParams(body.CreateElement(tag), params)
	return doc
}

func encodeParams(el *etree.Element, params *Params) {
	for _, k := range params.Keys() {
		v, _ := params.Get(k)
		encodeValue(el, k, v)
	}
}

func encodeValue(parent *etree.Element, name string, v any) {
	switch v := v.(type) {
	case nil:
		return
	case *Params:
		if v == nil {
			return
		}
		encodeParams(parent.CreateElement(name), v)
		return
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		el := parent.CreateElement(name)
		for _, k := range keys {
			encodeValue(el, k, v[k])
		}
		return
	case []any:
		for _, item := range v {
			encodeValue(parent, name, item)
		}
		return
	case []*Params:
		for _, item := range v {
			encodeValue(parent, name, item)
		}
		return
	}

	text, ok := text(v)
	if ok {
		parent.CreateElement(name).SetText(text)
		return
	}

	// Other slices (e.g. []string, []int64), typed maps and structures.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			encodeValue(parent, name, rv.Index(i).Interface())
		}
	case reflect.Ptr:
		if rv.IsNil() {
			return
		}
		encodeValue(parent, name, rv.Elem().Interface())
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		values := make(map[string]any, rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			values[k] = iter.Value().Interface()
		}
		sort.Strings(keys)

		el := parent.CreateElement(name)
		for _, k := range keys {
			encodeValue(el, k, values[k])
		}
	case reflect.Struct:
		encodeValue(parent, name, paramsOf(v))
	default:
		parent.CreateElement(name).SetText(fmt.Sprint(v))
	}
}

// text renders scalar values. It returns false for composite values.
func text(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case encoding.TextMarshaler:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "", false
		}
		b, err := v.MarshalText()
		if err != nil {
			return "", false
		}
		return string(b), true
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "", false
		}
		return v.String(), true
	}
	return "", false
}

//
// Decoding
//

var errNoEnvelope = errors.New("no SOAP body found")

// decodeEnvelope returns the first element of the SOAP body as a Record.
func decodeEnvelope(doc *etree.Document) (*Record, error) {
	root := doc.Root()
	if root == nil || root.Tag != "Envelope" {
		return nil, errNoEnvelope
	}
	body := root.SelectElement("Body")
	if body == nil {
		return nil, errNoEnvelope
	}

	children := body.ChildElements()
	if len(children) == 0 {
		return NewRecord(), nil
	}

	if children[0].Tag == "Fault" {
		return nil, decodeFault(children[0])
	}

	if r, ok := decodeElement(children[0]).(*Record); ok {
		return r, nil
	}
	return NewRecord(), nil
}

func decodeFault(el *etree.Element) *Fault {
	fault := &Fault{}
	if e := el.SelectElement("faultcode"); e != nil {
		fault.Code = strings.TrimSpace(e.Text())
	}
	if e := el.SelectElement("faultstring"); e != nil {
		fault.String = strings.TrimSpace(e.Text())
	}
	if e := el.SelectElement("faultactor"); e != nil {
		fault.Actor = strings.TrimSpace(e.Text())
	}
	if e := el.SelectElement("detail"); e != nil {
		doc := etree.NewDocument()
		for _, child := range e.ChildElements() {
			doc.AddChild(child.Copy())
		}
		fault.Detail, _ = doc.WriteToString()
		if fault.Detail == "" {
			fault.Detail = strings.TrimSpace(e.Text())
		}
	}
	return fault
}

// decodeElement returns a *Record for elements with children, the text otherwise.
func decodeElement(el *etree.Element) any {
	children := el.ChildElements()
	if len(children) == 0 {
		if nilled(el) {
			return nil
		}
		return el.Text()
	}

	r := NewRecord()
	for _, child := range children {
		r.add(child.Tag, decodeElement(child))
	}
	return r
}

func nilled(el *etree.Element) bool {
	for _, attr := range el.Attr {
		if attr.Key != "nil" || attr.Value != "true" {
			continue
		}
		if attr.Space == "xsi" || attr.NamespaceURI() == namespaceInstance {
			return true
		}
	}
	return false
}

//
// Charsets
//

func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	return doc
}

// charsetReader decodes the legacy Turkish and latin charsets into UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-8", "utf8", "":
		return input, nil
	case "iso-8859-9", "latin5":
		return charmap.ISO8859_9.NewDecoder().Reader(input), nil
	case "windows-1254", "cp1254":
		return charmap.Windows1254.NewDecoder().Reader(input), nil
	case "iso-8859-1", "latin1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	}
	return nil, errors.Errorf("unsupported charset: %s", label)
}
