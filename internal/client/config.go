package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	sargon2 "github.com/mdouchement/simple-argon2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	saltKeyLength   = 16
	credentialsfile = ".n11"
)

// A Config holds the credentials stored by the login command.
type Config struct {
	Endpoint  string `json:"endpoint"`
	AppKey    string `json:"app_key"`
	AppSecret string `json:"app_secret"`
}

// Exists returns true if a credential file is present in the current directory.
func Exists() bool {
	_, err := os.Stat(credentialsfile)
	return err == nil
}

// Remove removes the credential files from the current directory.
func Remove() error {
	return os.Remove(credentialsfile)
}

// Load gets the configuration from the current folder according to `credentialsfile` const.
func Load() (Config, error) {
	fmt.Fprintln(os.Stderr, "Loading credentials from "+credentialsfile)
	cfg := Config{}

	ciphertext, err := os.ReadFile(credentialsfile)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read credentials file")
	}

	passphrase, err := readline.Password("passphrase: ")
	if err != nil {
		return cfg, errors.Wrap(err, "could not read passphrase from stdin")
	}

	payload, err := open(passphrase, ciphertext)
	if err != nil {
		return cfg, err
	}

	err = json.Unmarshal(payload, &cfg)
	return cfg, errors.Wrap(err, "could not parse config")
}

// Save stores the configuration in the current folder according to `credentialsfile` const.
func Save(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "could not serialize config")
	}

	fmt.Fprintln(os.Stderr, "Storing credentials in current directory as "+credentialsfile)
	passphrase, err := readline.Password("passphrase: ")
	if err != nil {
		return errors.Wrap(err, "could not read passphrase from stdin")
	}

	ciphertext, err := seal(passphrase, payload)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(credentialsfile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", credentialsfile)
	}
	defer f.Close()

	_, err = f.Write(ciphertext)
	if err != nil {
		return errors.Wrap(err, "could not store credentials")
	}

	return errors.Wrap(f.Sync(), "could not store credentials")
}

// seal encrypts payload with a key derived from the passphrase.
// Output layout: salt | nonce | ciphertext.
func seal(passphrase, payload []byte) ([]byte, error) {
	//
	// Key derivation of passphrase

	salt, err := sargon2.GenerateRandomBytes(saltKeyLength)
	if err != nil {
		return nil, errors.Wrap(err, "could not generate salt for credentials")
	}
	hash := argon2.IDKey(passphrase, salt, 3, 64<<10, 2, 32)

	//
	// Seal config

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}
	nonce, err := sargon2.GenerateRandomBytes(uint32(aead.NonceSize()))
	if err != nil {
		return nil, errors.Wrap(err, "could not generate nonce for credentials")
	}

	ciphertext := aead.Seal(nil, nonce, payload, nil)
	ciphertext = append(nonce, ciphertext...)
	return append(salt, ciphertext...), nil
}

// open decrypts a payload sealed by seal.
func open(passphrase, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltKeyLength+chacha20poly1305.NonceSizeX {
		return nil, errors.New("could not decrypt credentials file: file too short")
	}

	//
	// Key derivation of passphrase

	salt := ciphertext[:saltKeyLength]
	ciphertext = ciphertext[saltKeyLength:]
	hash := argon2.IDKey(passphrase, salt, 3, 64<<10, 2, 32)

	//
	// Open config

	aead, err := chacha20poly1305.NewX(hash)
	if err != nil {
		return nil, errors.Wrap(err, "could not create AEAD")
	}

	nonce := ciphertext[:aead.NonceSize()]
	ciphertext = ciphertext[aead.NonceSize():]

	payload, err := aead.Open(nil, nonce, ciphertext, nil)
	return payload, errors.Wrap(err, "could not decrypt credentials file")
}
