package github

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v68/github"
	nanoid "github.com/matoous/go-nanoid/v2"
)

// GitHub rejects app tokens older than ten minutes and tolerates some
// clock drift on iat.
const (
	appJWTTTL       = 9 * time.Minute
	appJWTClockSkew = 60 * time.Second
)

// AppJWT signs the JSON Web Token a GitHub App uses to authenticate as
// itself.
func AppJWT(appID int64, privateKeyPEM string, now time.Time) (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("failed to parse app private key: %w", err)
	}

	tokenID, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTClockSkew)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTTTL)),
		ID:        tokenID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
}

// InstallationToken exchanges app credentials for an installation access
// token scoped to owner/repo. opts configure the API endpoint and HTTP
// client exactly as for NewClient.
func InstallationToken(ctx context.Context, appID int64, privateKeyPEM, owner, repo string, opts ...ClientOption) (string, error) {
	appToken, err := AppJWT(appID, privateKeyPEM, time.Now())
	if err != nil {
		return "", err
	}

	// go-github sends an explicit token as "Bearer", which is what app
	// endpoints require.
	c := NewClient("", opts...)
	gh := c.GitHubClient().WithAuthToken(appToken)

	inst, _, err := gh.Apps.FindRepositoryInstallation(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("failed to find app installation for %s/%s: %w", owner, repo, err)
	}

	tok, _, err := gh.Apps.CreateInstallationToken(ctx, inst.GetID(), &github.InstallationTokenOptions{
		Repositories: []string{repo},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create installation token: %w", err)
	}
	return tok.GetToken(), nil
}
