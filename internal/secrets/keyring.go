// Package secrets stores API keys in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// Service groups dealflow's secrets in the OS keychain
const Service = "dealflow"

// Accounts are the keychain entries dealflow reads
var Accounts = []string{"harmonic", "affinity", "lemlist", "llm"}

func checkAccount(account string) error {
	for _, a := range Accounts {
		if a == account {
			return nil
		}
	}
	return fmt.Errorf("unknown key %q (known: %s)", account, strings.Join(Accounts, ", "))
}

// Get returns the stored key for an account. A missing entry or an
// unavailable keychain is ("", false).
func Get(account string) (string, bool) {
	key, err := keyring.Get(Service, account)
	if err != nil || strings.TrimSpace(key) == "" {
		return "", false
	}
	return strings.TrimSpace(key), true
}

// Set stores a key
func Set(account, key string) error {
	if err := checkAccount(account); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("key is empty")
	}
	return keyring.Set(Service, account, strings.TrimSpace(key))
}

// Delete removes a stored key. Deleting a missing key is not an error.
func Delete(account string) error {
	if err := checkAccount(account); err != nil {
		return err
	}
	err := keyring.Delete(Service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
