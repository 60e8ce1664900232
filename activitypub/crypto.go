package activitypub

import (
	"crypto/rsa"
	"net/http"

	"github.com/deemkeen/stegodon/federation"
)

// ParsePrivateKey decodes a local account's stored PEM private key. The
// actual PKCS#8/PKCS#1 parsing lives in federation.ParsePrivateKey; this
// thin wrapper exists because outbox.go calls it unqualified within this
// package.
func ParsePrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	return federation.ParsePrivateKey(pemStr)
}

// SignRequest attaches a draft-cavage HTTP signature over
// (request-target), host, date and digest, keyed by keyID.
func SignRequest(req *http.Request, privateKey *rsa.PrivateKey, keyID string) error {
	return federation.SignRequest(req, privateKey, keyID, []string{"(request-target)", "host", "date", "digest"})
}
