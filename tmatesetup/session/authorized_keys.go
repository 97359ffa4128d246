package session

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	multierror "github.com/hashicorp/go-multierror"
	homedir "github.com/mitchellh/go-homedir"
	"golang.org/x/crypto/ssh"
)

var ErrNoAuthorizedKeys = errors.New("authorized keys file contains no keys")

// ValidateAuthorizedKeys checks that every entry of an authorized_keys file
// parses as an SSH public key. It returns the expanded path to hand to tmate.
func ValidateAuthorizedKeys(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return "", err
	}

	var result *multierror.Error
	keys := 0
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line)); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s:%d: %w", expanded, n, err))
			continue
		}
		keys++
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	if err := result.ErrorOrNil(); err != nil {
		return "", err
	}
	if keys == 0 {
		return "", fmt.Errorf("%s: %w", expanded, ErrNoAuthorizedKeys)
	}
	return expanded, nil
}
