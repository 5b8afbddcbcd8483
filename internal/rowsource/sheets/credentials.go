package sheets

import (
	"encoding/json"
	"errors"
	"strings"
)

const tokenURI = "https://oauth2.googleapis.com/token"

type serviceAccount struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// UnescapePrivateKey turns literal "\n" sequences into newlines. Keys pasted
// into a single-line environment variable arrive escaped.
func UnescapePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// ServiceAccountJSON assembles a service account credentials document from an
// email and a PEM private key.
func ServiceAccountJSON(clientEmail, privateKey string) ([]byte, error) {
	clientEmail = strings.TrimSpace(clientEmail)
	privateKey = strings.TrimSpace(UnescapePrivateKey(privateKey))
	if clientEmail == "" || privateKey == "" {
		return nil, errors.New("sheets: client email and private key are required")
	}
	return json.Marshal(serviceAccount{
		Type:        "service_account",
		ClientEmail: clientEmail,
		PrivateKey:  privateKey,
		TokenURI:    tokenURI,
	})
}
