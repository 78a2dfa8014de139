package client

import (
	"context"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
)

// Login checks the n11 credentials read from stdin and stores them.
func Login(s Settings) error {
	cfg := Config{Endpoint: s.Endpoint}

	appKey, err := readline.Line("App key: ")
	if err != nil {
		return errors.Wrap(err, "could not read app key from stdin")
	}
	cfg.AppKey = appKey

	appSecret, err := readline.Password("App secret: ")
	if err != nil {
		return errors.Wrap(err, "could not read app secret from stdin")
	}
	cfg.AppSecret = string(appSecret)

	//
	//

	client := libn11.New(cfg.AppKey, cfg.AppSecret, nil,
		libn11.WithEndpoint(cfg.Endpoint),
		libn11.WithLogger(NewLogger(s.LogFile)),
	)

	// Categories are only listed to authenticated accounts.
	if _, err = client.FetchCategories(context.Background()); err != nil {
		return errors.Wrap(err, "could not login")
	}
	fmt.Fprintln(os.Stderr, "Credentials are valid")

	return Save(cfg)
}
