package credential

import (
	"context"
	"errors"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// StaticTokenCredential is an azcore.TokenCredential over a token obtained
// elsewhere. The expiry it reports is nominal.
type StaticTokenCredential struct {
	token string
}

func NewStaticTokenCredential(token string) *StaticTokenCredential {
	return &StaticTokenCredential{
		token: token,
	}
}

func (c *StaticTokenCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	if c.token == "" {
		return azcore.AccessToken{}, errors.New("static token credential has no token")
	}
	return azcore.AccessToken{
		Token:     c.token,
		ExpiresOn: time.Now().Add(1 * time.Hour),
	}, nil
}

var _ azcore.TokenCredential = (*StaticTokenCredential)(nil)
