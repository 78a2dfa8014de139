package libn11_test

import (
	"fmt"
	"testing"

	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestN11Error(t *testing.T) {
	fault := &libn11.Fault{Code: "SOAP-ENV:Server", String: "Forbidden"}
	err := &libn11.N11Error{Message: "unauthorized access", Code: fault.Code, Err: fault}

	assert.Equal(t, "unauthorized access", err.Error())
	assert.Equal(t, "unauthorized access", fmt.Sprintf("%v", err))
	assert.Equal(t, "n11: [SOAP-ENV:Server]: unauthorized access: Forbidden", fmt.Sprintf("%+v", err))
	assert.Equal(t, fault, errors.Cause(err))
	assert.True(t, libn11.IsN11Error(errors.Wrap(err, "could not fetch categories")))
	assert.False(t, libn11.IsN11Error(fault))
}
