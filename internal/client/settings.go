package client

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
)

// Settings are the options of the command line client.
type Settings struct {
	Endpoint  string
	AppKey    string
	AppSecret string
	AsArray   bool
	Dump      bool
	LogFile   string
	RateLimit float64
}

// LoadSettings reads the given YAML file (optional) then the N11_* environment variables.
//
//	endpoint: https://api.n11.com/ws
//	app_key: xxx
//	app_secret: xxx
//	as_array: true
//	log_file: n11.log
//	rate_limit: 5 # calls per second
func LoadSettings(filename string) (Settings, error) {
	konf := koanf.New(".")

	if filename != "" {
		if err := konf.Load(file.Provider(filename), yaml.Parser()); err != nil {
			return Settings{}, errors.Wrap(err, "could not load config file")
		}
	}

	err := konf.Load(env.Provider("N11_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "N11_"))
	}), nil)
	if err != nil {
		return Settings{}, errors.Wrap(err, "could not load environment")
	}

	s := Settings{
		Endpoint:  konf.String("endpoint"),
		AppKey:    konf.String("app_key"),
		AppSecret: konf.String("app_secret"),
		AsArray:   konf.Bool("as_array"),
		LogFile:   konf.String("log_file"),
		RateLimit: konf.Float64("rate_limit"),
	}
	if s.Endpoint == "" {
		s.Endpoint = libn11.DefaultEndpoint
	}
	return s, nil
}
