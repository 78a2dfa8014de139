package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// A Call is an operation performed with a libn11.Client.
type Call func(ctx context.Context, client libn11.Client) (map[string]any, error)

// Run performs the call and prints its response on stdout.
// Credentials are read from the stored ones when the settings do not provide them
// and the operation is authenticated.
func Run(s Settings, authenticated bool, call Call) error {
	if authenticated && s.AppKey == "" && Exists() {
		cfg, err := Load()
		if err != nil {
			return errors.Wrap(err, "could not load config")
		}

		s.AppKey = cfg.AppKey
		s.AppSecret = cfg.AppSecret
		if cfg.Endpoint != "" {
			s.Endpoint = cfg.Endpoint
		}
	}

	return run(os.Stdout, s, NewClient(s), call)
}

// NewClient returns a libn11.Client configured by the given settings.
func NewClient(s Settings) libn11.Client {
	opts := []libn11.ClientOption{
		libn11.WithEndpoint(s.Endpoint),
		libn11.WithLogger(NewLogger(s.LogFile)),
	}
	if s.RateLimit > 0 {
		opts = append(opts, libn11.WithRateLimit(rate.Limit(s.RateLimit), 1))
	}

	return libn11.New(s.AppKey, s.AppSecret, libn11.Options{
		libn11.OptionAsArray: s.AsArray,
	}, opts...)
}

func run(w io.Writer, s Settings, client libn11.Client, call Call) error {
	response, err := call(context.Background(), client)
	if err != nil {
		return err
	}

	if s.Dump {
		_, err = fmt.Fprintln(w, dump(response))
		return errors.Wrap(err, "could not write response")
	}

	payload, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize response")
	}

	_, err = fmt.Fprintln(w, string(payload))
	return errors.Wrap(err, "could not write response")
}

// ReadProduct reads a product described in a JSON file.
func ReadProduct(filename string) (libn11.Product, error) {
	var product libn11.Product

	data, err := os.ReadFile(filename)
	if err != nil {
		return product, errors.Wrap(err, "could not load file")
	}

	err = json.Unmarshal(data, &product)
	return product, errors.Wrap(err, "could not parse product")
}
