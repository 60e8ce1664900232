package federation

import (
	"crypto/rsa"
	"fmt"
	"net/http"

	"code.superseriousbusiness.org/httpsig"
)

// signedHeaders is the draft-cavage-http-signatures-10 header set this
// engine signs on every outbound delivery.
var signedHeaders = []string{httpsig.RequestTarget, "host", "date", "digest"}

// SignRequest attaches an HTTP Signature to req using privateKey, identified
// by keyID (an actor's `#main-key` fragment URI). headers overrides the
// default signed-header set when non-nil.
func SignRequest(req *http.Request, privateKey *rsa.PrivateKey, keyID string, headers []string) error {
	if headers == nil {
		headers = signedHeaders
	}

	signer, _, err := httpsig.NewSigner(
		[]httpsig.Algorithm{httpsig.RSA_SHA256},
		httpsig.DigestSha256,
		headers,
		httpsig.Signature,
		0,
	)
	if err != nil {
		return NewError(ErrKindCrypto, fmt.Errorf("build httpsig signer: %w", err))
	}

	if err := signer.SignRequest(privateKey, keyID, req, nil); err != nil {
		return NewError(ErrKindCrypto, fmt.Errorf("sign request: %w", err))
	}
	return nil
}

// VerifySignature validates an inbound request's HTTP Signature against the
// given public key. It returns the
// keyId the request claims so the caller can check it matches the fetched
// actor, and an error (ErrKindUnauthorized) on any mismatch.
func VerifySignature(r *http.Request, publicKey *rsa.PublicKey) (keyID string, err error) {
	verifier, err := httpsig.NewVerifier(r)
	if err != nil {
		return "", NewError(ErrKindUnauthorized, fmt.Errorf("parse signature header: %w", err))
	}

	keyID = verifier.KeyId()
	if err := verifier.Verify(publicKey, httpsig.RSA_SHA256); err != nil {
		return keyID, NewError(ErrKindUnauthorized, fmt.Errorf("verify signature: %w", err))
	}
	return keyID, nil
}
