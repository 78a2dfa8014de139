package client

import (
	"github.com/pkg/errors"
)

// Logout removes the stored credentials.
func Logout() error {
	if !Exists() {
		return errors.New("could not logout because no credentials are stored")
	}

	return errors.Wrap(Remove(), "could not remove credential file")
}
