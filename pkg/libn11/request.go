package libn11

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	statusSuccess  = "success"
	faultForbidden = "Forbidden"
)

type (
	callOptions struct {
		auth bool
	}

	callOption func(*callOptions)
)

func withoutAuth(o *callOptions) {
	o.auth = false
}

// WSDL returns the location of the WSDL describing the given service.
func WSDL(endpoint, service string) string {
	return fmt.Sprintf("%s/%s.wsdl", strings.TrimSuffix(endpoint, "/"), service)
}

// execute is the single path of every remote call.
func (c *client) execute(ctx context.Context, service, operation string, params *Params, opts ...callOption) (map[string]any, error) {
	options := callOptions{auth: true}
	for _, opt := range opts {
		opt(&options)
	}

	c.RLock()
	if options.auth {
		// auth leads the request and always wins over a caller provided one.
		auth := c.authParams()
		params = auth.Merge(params).Merge(auth)
	}
	endpoint := c.endpoint
	asArray := c.options.AsArray()
	c.RUnlock()

	uri := WSDL(endpoint, service)
	logger := c.logger.WithFields(logrus.Fields{
		"call_id":   callID(),
		"service":   service,
		"operation": operation,
	})
	logger.Debugf("Calling %s with %d parameter(s)", uri, params.Len())

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &N11Error{
				Message: fmt.Sprintf("could not call %s: %s", operation, err),
				Err:     err,
			}
		}
	}

	caller, err := c.caller(ctx, uri)
	if err != nil {
		logger.WithError(err).Debug("Could not create SOAP client")
		return nil, &N11Error{
			Message: fmt.Sprintf("could not create SOAP client: %s", err),
			Code:    faultCode(err),
			Err:     err,
		}
	}

	response, err := caller.Call(ctx, operation, params)
	if err != nil {
		logger.WithError(err).Debug("Call failed")
		return nil, callError(operation, err)
	}
	if response == nil {
		response = NewRecord()
	}

	if err = checkResult(response); err != nil {
		logger.WithError(err).Debug("Call returned a failed result")
		return nil, err
	}
	logger.Debug("Call succeeded")

	if asArray {
		return response.Map(), nil
	}
	return response.Fields(), nil
}

// authParams must be called with c locked.
func (c *client) authParams() *Params {
	return NewParams(
		"auth", NewParams(
			"appKey", c.appKey,
			"appSecret", c.appSecret,
		),
	)
}

// caller returns the Caller bound to the given WSDL, dialing it when it is not cached yet.
func (c *client) caller(ctx context.Context, uri string) (Caller, error) {
	c.cmu.Lock()
	defer c.cmu.Unlock()

	if caller, ok := c.callers[uri]; ok {
		return caller, nil
	}

	caller, err := c.dialer(ctx, uri)
	if err != nil {
		return nil, err
	}

	if c.callers != nil {
		c.callers[uri] = caller
	}
	return caller, nil
}

func callError(operation string, err error) *N11Error {
	var fault *Fault
	if !errors.As(err, &fault) {
		return &N11Error{
			Message: fmt.Sprintf("could not call %s: %s", operation, err),
			Err:     err,
		}
	}

	if fault.String == faultForbidden {
		return &N11Error{
			Message:  "unauthorized access",
			Code:     fault.Code,
			Err:      err,
			Response: fault,
		}
	}

	return &N11Error{
		Message:  fmt.Sprintf("could not call %s (%s): %s", operation, fault.Code, fault.String),
		Code:     fault.Code,
		Err:      err,
		Response: fault,
	}
}

// checkResult fails when the response carries a result envelope whose status is not a success.
// Responses without an envelope are successes.
func checkResult(response *Record) error {
	result, ok := response.Get("result").(*Record)
	if !ok || !result.Has("status") {
		return nil
	}

	status := scalar(result.Get("status"))
	if status == statusSuccess {
		return nil
	}

	message := scalar(result.Get("errorMessage"))
	if message == "" {
		message = fmt.Sprintf("unexpected result status: %s", status)
	}

	return &N11Error{
		Message:  message,
		Code:     scalar(result.Get("errorCode")),
		Response: response,
	}
}

func faultCode(err error) string {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault.Code
	}
	return ""
}

func scalar(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func callID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return id.String()
}
