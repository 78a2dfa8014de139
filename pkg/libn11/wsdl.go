package libn11

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

type (
	// A definition is what a Caller needs from a WSDL.
	definition struct {
		namespace  string
		location   string
		operations map[string]operation
	}

	operation struct {
		action string
		input  qname
	}

	qname struct {
		space string
		local string
	}
)

// parseWSDL reads the definitions of the given WSDL document.
// uri is used as a fallback location when the document has no soap:address.
func parseWSDL(doc *etree.Document, uri string) (definition, error) {
	root := doc.Root()
	if root == nil || root.Tag != "definitions" {
		return definition{}, errors.New("not a WSDL document")
	}

	def := definition{
		namespace:  root.SelectAttrValue("targetNamespace", ""),
		location:   strings.TrimSuffix(uri, ".wsdl"),
		operations: map[string]operation{},
	}

	for _, address := range root.FindElements("./service/port/address") {
		if location := address.SelectAttrValue("location", ""); location != "" {
			def.location = location
			break
		}
	}

	//
	// message name -> element of its part

	messages := map[string]qname{}
	for _, message := range root.SelectElements("message") {
		part := message.SelectElement("part")
		if part == nil {
			continue
		}
		element := part.SelectAttrValue("element", "")
		if element == "" {
			continue
		}
		messages[message.SelectAttrValue("name", "")] = resolve(part, element, def.namespace)
	}

	//
	// portType operation -> input message

	for _, op := range root.FindElements("./portType/operation") {
		name := op.SelectAttrValue("name", "")
		o := operation{input: qname{space: def.namespace, local: name + "Request"}}

		if input := op.SelectElement("input"); input != nil {
			_, message := split(input.SelectAttrValue("message", ""))
			if element, ok := messages[message]; ok {
				o.input = element
			}
		}
		def.operations[name] = o
	}

	//
	// binding operation -> soapAction

	for _, op := range root.FindElements("./binding/operation") {
		name := op.SelectAttrValue("name", "")
		o, ok := def.operations[name]
		if !ok {
			o = operation{input: qname{space: def.namespace, local: name + "Request"}}
		}

		if soapop := op.SelectElement("operation"); soapop != nil {
			o.action = soapop.SelectAttrValue("soapAction", "")
		}
		def.operations[name] = o
	}

	return def, nil
}

// operation returns the definition of the named operation or the n11 naming convention.
func (d definition) operation(name string) operation {
	if o, ok := d.operations[name]; ok {
		return o
	}
	return operation{input: qname{space: d.namespace, local: name + "Request"}}
}

// resolve expands a prefixed name using the namespaces declared in scope of el.
func resolve(el *etree.Element, name, fallback string) qname {
	prefix, local := split(name)
	for e := el; e != nil; e = e.Parent() {
		for _, attr := range e.Attr {
			if prefix != "" && attr.Space == "xmlns" && attr.Key == prefix {
				return qname{space: attr.Value, local: local}
			}
			if prefix == "" && attr.Space == "" && attr.Key == "xmlns" {
				return qname{space: attr.Value, local: local}
			}
		}
	}
	return qname{space: fallback, local: local}
}

func split(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
