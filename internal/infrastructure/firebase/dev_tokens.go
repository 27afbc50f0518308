package firebase

import (
	"context"

	"google.golang.org/api/identitytoolkit/v3"

	"foodshare/pkg/errors"
)

// IssueTestToken mints an ID token for uid without a password, for
// exercising the API from the command line.
func (f *FirebaseAuthClient) IssueTestToken(ctx context.Context, uid string) (string, error) {
	customToken, err := f.client.CustomToken(ctx, uid)
	if err != nil {
		return "", errors.Internal("Failed to mint custom token", err)
	}

	resp, err := f.toolkit.Relyingparty.VerifyCustomToken(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyCustomTokenRequest{
		Token:             customToken,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return "", errors.Internal("Failed to exchange custom token", err)
	}
	return resp.IdToken, nil
}
