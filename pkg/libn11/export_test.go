package libn11

import "github.com/beevik/etree"

// This file is only for test purpose and is only loaded by test framework.

// Envelope returns the SOAP request of the given qualified element.
func Envelope(space, local string, params *Params) *etree.Document {
	return envelope(qname{space: space, local: local}, params)
}

// DecodeEnvelope returns the first element of the SOAP body.
func DecodeEnvelope(doc *etree.Document) (*Record, error) {
	return decodeEnvelope(doc)
}

// Definition returns the namespace, the location and the operations (input element and soapAction)
// read from the given WSDL.
func Definition(doc *etree.Document, uri string) (namespace, location string, operations map[string][3]string, err error) {
	def, err := parseWSDL(doc, uri)
	if err != nil {
		return "", "", nil, err
	}

	operations = map[string][3]string{}
	for name, op := range def.operations {
		operations[name] = [3]string{op.input.space, op.input.local, op.action}
	}
	return def.namespace, def.location, operations, nil
}
